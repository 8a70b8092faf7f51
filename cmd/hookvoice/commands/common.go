package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	btclogv2 "github.com/btcsuite/btclog/v2"
	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/hookvoice/internal/build"
	"github.com/roasbeef/hookvoice/internal/config"
	"github.com/roasbeef/hookvoice/internal/db"
	"github.com/roasbeef/hookvoice/internal/elevenlabs"
	"github.com/roasbeef/hookvoice/internal/event"
	"github.com/roasbeef/hookvoice/internal/hooks"
	"github.com/roasbeef/hookvoice/internal/playback"
	"github.com/roasbeef/hookvoice/internal/speech"
	"github.com/spf13/cobra"
)

var (
	// newSpeaker builds the speaker used by the hooks. Tests replace it.
	newSpeaker = func(cfg *config.Config) speech.Speaker {
		return speech.NewInvoker(speech.InvokerConfig{
			HelperPath: cfg.HelperPath,
			APIKey:     cfg.APIKey,
			VoiceID:    cfg.VoiceID,
			ModelID:    cfg.ModelID,
			Timeout:    cfg.SpeechTimeout,
		})
	}

	// newRand returns the source used for message choice.
	newRand = func() speech.Rand {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
)

// session is the per-process state shared by every command: configuration,
// logging and an optional journal.
type session struct {
	runID   string
	cfg     *config.Config
	logging *build.Logging
	log     btclogv2.Logger
	journal fn.Option[*db.Store]
}

// startSession loads the configuration and sets up logging. Problems are
// reported on stderr and otherwise ignored, so a hook always gets a usable
// session.
func startSession(ctx context.Context, cmd *cobra.Command) *session {
	runID := uuid.NewString()

	cfg, err := config.LoadOrDefault()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "hookvoice: %v\n", err)
	}

	logging, err := build.NewLogging(&build.LogConfig{
		Dir:    cfg.LogDir,
		Level:  cfg.LogLevel,
		Stderr: cfg.LogStderr,
		Prefix: runID[:8],
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "hookvoice: %v\n", err)
	}
	setSubLoggers(logging)

	cfg.LogSummary(ctx)

	return &session{
		runID:   runID,
		cfg:     cfg,
		logging: logging,
		log:     logging.SubLogger(hooks.Subsystem),
	}
}

// setSubLoggers hands each package its tagged logger.
func setSubLoggers(logging *build.Logging) {
	config.UseLogger(logging.SubLogger(config.Subsystem))
	db.UseLogger(logging.SubLogger(db.Subsystem))
	elevenlabs.UseLogger(logging.SubLogger(elevenlabs.Subsystem))
	hooks.UseLogger(logging.SubLogger(hooks.Subsystem))
	playback.UseLogger(logging.SubLogger(playback.Subsystem))
	speech.UseLogger(logging.SubLogger(speech.Subsystem))
}

// openJournal opens the journal if one is configured. Failure to open it
// only disables journaling.
func (s *session) openJournal(ctx context.Context) {
	s.cfg.JournalPath.WhenSome(func(path string) {
		store, err := db.Open(ctx, path)
		if err != nil {
			s.log.WarnS(ctx, "Journal unavailable", err, "path", path)
			return
		}

		s.journal = fn.Some(store)
	})
}

// recorder returns the journal as a hooks recorder.
func (s *session) recorder() fn.Option[db.Recorder] {
	var rec fn.Option[db.Recorder]
	s.journal.WhenSome(func(store *db.Store) {
		rec = fn.Some[db.Recorder](store)
	})

	return rec
}

// handler builds the hook handler for this session.
func (s *session) handler() *hooks.Handler {
	return hooks.NewHandler(hooks.HandlerConfig{
		Speaker:      newSpeaker(s.cfg),
		Rand:         newRand(),
		EngineerName: s.cfg.EngineerName,
		Journal:      s.recorder(),
		RunID:        s.runID,
	})
}

// close releases the journal and flushes the log file.
func (s *session) close() {
	s.journal.WhenSome(func(store *db.Store) {
		_ = store.Close()
	})
	_ = s.logging.Close()
}

// readPayload reads the hook event from the command's stdin.
func readPayload(cmd *cobra.Command) fn.Result[event.Payload] {
	in := cmd.InOrStdin()
	if in == os.Stdin {
		return event.ReadStdin()
	}

	return event.Read(in)
}

// getClaudeDir returns the --claude-dir flag or ~/.claude.
func getClaudeDir() (string, error) {
	if claudeDir != "" {
		return claudeDir, nil
	}

	return hooks.DefaultClaudeDir()
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))

	return err
}
