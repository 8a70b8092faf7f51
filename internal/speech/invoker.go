package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// HelperName is the file name of the standalone speech helper.
	HelperName = "elevenlabs-tts"

	// DefaultTimeout bounds a helper run.
	DefaultTimeout = 10 * time.Second

	// waitDelay is how long Wait keeps going after the helper's group has
	// been killed before giving up on it.
	waitDelay = time.Second
)

// ErrHelperNotFound is returned when no speech helper binary can be found.
var ErrHelperNotFound = errors.New("speech helper not found")

// Speaker says a line of text out loud.
type Speaker interface {
	// Speak attempts to speak text. It never returns an error, the
	// outcome is reported in the Result.
	Speak(ctx context.Context, text string) Result
}

// InvokerConfig configures an Invoker.
type InvokerConfig struct {
	// HelperPath is an explicit helper location. A bare name is looked up
	// in $PATH.
	HelperPath fn.Option[string]

	// APIKey is the ElevenLabs key. Without it nothing is spawned.
	APIKey fn.Option[string]

	// VoiceID and ModelID are forwarded to the helper's environment.
	VoiceID string
	ModelID string

	// Timeout bounds the helper run. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Invoker speaks by running the standalone helper as a subprocess.
type Invoker struct {
	cfg InvokerConfig

	// executable returns the path of the running binary, used to find a
	// helper installed alongside it.
	executable func() (string, error)
}

// NewInvoker creates an Invoker.
func NewInvoker(cfg InvokerConfig) *Invoker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Invoker{
		cfg:        cfg,
		executable: os.Executable,
	}
}

// Speak runs the helper with text as its single argument. The helper's output
// is discarded and it is killed, along with anything it spawned, if it
// outlives the timeout.
func (i *Invoker) Speak(ctx context.Context, text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failed(fmt.Sprintf("panic: %v", r))
		}
	}()

	helper, err := i.locateHelper()
	if err != nil {
		log.DebugS(ctx, "Speech helper unavailable", "err", err)
		return Disabled(err.Error())
	}

	apiKey, err := i.cfg.APIKey.UnwrapOrErr(
		errors.New("no ElevenLabs API key configured"),
	)
	if err != nil {
		return Disabled(err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, helper, text)
	cmd.Env = append(os.Environ(),
		"ELEVENLABS_API_KEY="+apiKey,
		"ELEVENLABS_VOICE_ID="+i.cfg.VoiceID,
		"ELEVENLABS_MODEL_ID="+i.cfg.ModelID,
	)
	setProcGroup(cmd)
	cmd.Cancel = func() error {
		return killProcGroup(cmd)
	}
	cmd.WaitDelay = waitDelay

	log.DebugS(ctx, "Running speech helper", "helper", helper,
		"text", text, "timeout", i.cfg.Timeout)

	start := time.Now()
	runErr := cmd.Run()

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Failed(fmt.Sprintf("helper timed out after %v",
			i.cfg.Timeout))

	case ctx.Err() != nil:
		return Failed(fmt.Sprintf("helper cancelled: %v", ctx.Err()))

	case runErr != nil:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return Failed(fmt.Sprintf("helper exited with "+
				"status %d", exitErr.ExitCode()))
		}

		return Failed(fmt.Sprintf("unable to run helper: %v", runErr))
	}

	log.DebugS(ctx, "Speech helper finished",
		"elapsed", time.Since(start))

	return Spoken()
}

// locateHelper resolves the helper binary: the configured path, then a
// binary next to the running executable, then $PATH.
func (i *Invoker) locateHelper() (string, error) {
	if explicit, err := i.cfg.HelperPath.UnwrapOrErr(
		ErrHelperNotFound,
	); err == nil {

		return lookupExecutable(explicit)
	}

	if self, err := i.executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), HelperName)
		if isExecutableFile(sibling) {
			return sibling, nil
		}
	}

	return lookupExecutable(HelperName)
}

// lookupExecutable accepts a path or a bare command name.
func lookupExecutable(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if isExecutableFile(name) {
			return name, nil
		}

		return "", fmt.Errorf("%w: %s", ErrHelperNotFound, name)
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrHelperNotFound, name)
	}

	return path, nil
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	return info.Mode().Perm()&0o111 != 0
}

// Ensure Invoker implements Speaker at compile time.
var _ Speaker = (*Invoker)(nil)
