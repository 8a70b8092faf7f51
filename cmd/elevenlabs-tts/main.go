// Command elevenlabs-tts speaks its arguments through the ElevenLabs API. It
// is run by the hookvoice hooks, which discard its output.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/roasbeef/hookvoice/internal/build"
	"github.com/roasbeef/hookvoice/internal/config"
	"github.com/roasbeef/hookvoice/internal/elevenlabs"
	"github.com/roasbeef/hookvoice/internal/playback"
	"github.com/roasbeef/hookvoice/internal/speech"
	"github.com/spf13/cobra"
)

const usage = "Usage: elevenlabs-tts 'text to speak'"

var (
	// newSynthesizer builds the ElevenLabs client. Tests replace it.
	newSynthesizer = func(apiKey string) (elevenlabs.Synthesizer, error) {
		return elevenlabs.NewClient(elevenlabs.Config{APIKey: apiKey})
	}

	// newPlayer builds the audio player. Tests replace it.
	newPlayer = func() playback.Player {
		return playback.NewExecPlayer()
	}
)

// exitCode is set by the command and returned from main.
var exitCode int

// rootCmd treats every argument as text, flags included.
var rootCmd = &cobra.Command{
	Use:                "elevenlabs-tts <text...>",
	Short:              "Speak text through ElevenLabs",
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode = run(cmd.Context(), args, cmd.ErrOrStderr())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Exit(exitCode)
}

// run speaks the joined arguments and returns the exit status. Only a
// missing argument list or API key is an error; failures while speaking are
// logged and still exit 0.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return 0
	}

	cfg, err := config.LoadOrDefault()
	if err != nil {
		fmt.Fprintf(stderr, "elevenlabs-tts: %v\n", err)
	}

	apiKey, err := cfg.RequireAPIKey()
	if err != nil {
		fmt.Fprintf(stderr, "elevenlabs-tts: %v\n", err)
		return 1
	}

	logging, err := build.NewLogging(&build.LogConfig{
		Dir:    cfg.LogDir,
		Level:  cfg.LogLevel,
		Stderr: cfg.LogStderr,
		Prefix: uuid.NewString()[:8],
	})
	if err != nil {
		fmt.Fprintf(stderr, "elevenlabs-tts: %v\n", err)
	}
	defer logging.Close()

	elevenlabs.UseLogger(logging.SubLogger(elevenlabs.Subsystem))
	playback.UseLogger(logging.SubLogger(playback.Subsystem))
	speech.UseLogger(logging.SubLogger(speech.Subsystem))

	log := logging.SubLogger(speech.Subsystem)

	synth, err := newSynthesizer(apiKey)
	if err != nil {
		log.ErrorS(ctx, "Unable to create ElevenLabs client", err)
		return 0
	}

	speaker := speech.NewDirectSpeaker(
		synth, newPlayer(), elevenlabs.SynthesizeOpts{
			VoiceID: cfg.VoiceID,
			ModelID: cfg.ModelID,
		},
	)

	res := speaker.Speak(ctx, text)
	log.InfoS(ctx, "Speech helper finished", "result", res.String())

	return 0
}
