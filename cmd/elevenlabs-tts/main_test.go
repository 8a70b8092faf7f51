package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roasbeef/hookvoice/internal/elevenlabs"
	"github.com/roasbeef/hookvoice/internal/playback"
	"github.com/stretchr/testify/require"
)

type stubSynth struct {
	texts []string
	opts  elevenlabs.SynthesizeOpts
	err   error
}

func (s *stubSynth) Synthesize(_ context.Context, text string,
	opts elevenlabs.SynthesizeOpts) ([]byte, error) {

	s.texts = append(s.texts, text)
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}

	return []byte("mp3"), nil
}

type stubPlayer struct {
	plays int
	err   error
}

func (s *stubPlayer) Play(context.Context, []byte) error {
	s.plays++
	return s.err
}

// setupHelper isolates the environment and installs stub backends.
func setupHelper(t *testing.T, apiKey string) (*stubSynth, *stubPlayer) {
	t.Helper()

	for _, key := range []string{
		"ELEVENLABS_API_KEY", "ELEVENLABS_VOICE_ID",
		"ELEVENLABS_MODEL_ID", "HOOKVOICE_LOG_STDERR",
		"HOOKVOICE_TTS_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("HOOKVOICE_LOG_DIR", t.TempDir())
	t.Setenv("HOOKVOICE_ENV_FILE", filepath.Join(t.TempDir(), "none"))
	if apiKey != "" {
		t.Setenv("ELEVENLABS_API_KEY", apiKey)
	}

	synth := &stubSynth{}
	player := &stubPlayer{}

	prevSynth, prevPlayer := newSynthesizer, newPlayer
	newSynthesizer = func(key string) (elevenlabs.Synthesizer, error) {
		require.Equal(t, apiKey, key)
		return synth, nil
	}
	newPlayer = func() playback.Player {
		return player
	}
	t.Cleanup(func() {
		newSynthesizer, newPlayer = prevSynth, prevPlayer
	})

	return synth, player
}

// TestRunNoArgs verifies the usage line and exit status.
func TestRunNoArgs(t *testing.T) {
	synth, _ := setupHelper(t, "sk")

	var stderr bytes.Buffer
	code := run(context.Background(), nil, &stderr)

	require.Equal(t, 1, code)
	require.Equal(t, usage+"\n", stderr.String())
	require.Empty(t, synth.texts)
}

// TestRunBlankText verifies whitespace is a silent success.
func TestRunBlankText(t *testing.T) {
	synth, _ := setupHelper(t, "sk")

	code := run(context.Background(), []string{" ", "\t"}, &bytes.Buffer{})

	require.Equal(t, 0, code)
	require.Empty(t, synth.texts)
}

// TestRunNoAPIKey verifies a missing key fails before any request.
func TestRunNoAPIKey(t *testing.T) {
	setupHelper(t, "")

	called := false
	newSynthesizer = func(string) (elevenlabs.Synthesizer, error) {
		called = true
		return nil, errors.New("unreachable")
	}

	code := run(context.Background(), []string{"hello"}, &bytes.Buffer{})

	require.Equal(t, 1, code)
	require.False(t, called)
}

// TestRunSpeaks verifies the arguments are joined and sent with the
// configured voice.
func TestRunSpeaks(t *testing.T) {
	synth, player := setupHelper(t, "sk-test")
	t.Setenv("ELEVENLABS_VOICE_ID", "voice-9")

	code := run(
		context.Background(), []string{"All", "done!"}, &bytes.Buffer{},
	)

	require.Equal(t, 0, code)
	require.Equal(t, []string{"All done!"}, synth.texts)
	require.Equal(t, "voice-9", synth.opts.VoiceID)
	require.Equal(t, "eleven_multilingual_v2", synth.opts.ModelID)
	require.Equal(t, 1, player.plays)
}

// TestRunFlagsAreText verifies dash-prefixed words are spoken, not parsed.
func TestRunFlagsAreText(t *testing.T) {
	synth, _ := setupHelper(t, "sk")

	var stderr bytes.Buffer
	rootCmd.SetArgs([]string{"--help", "me"})
	rootCmd.SetErr(&stderr)
	require.NoError(t, rootCmd.Execute())

	require.Equal(t, 0, exitCode)
	require.Equal(t, []string{"--help me"}, synth.texts)
}

// TestRunFailuresExitZero verifies synthesis and playback errors do not
// change the exit status.
func TestRunFailuresExitZero(t *testing.T) {
	synth, player := setupHelper(t, "sk")
	synth.err = errors.New("quota exceeded")

	code := run(context.Background(), []string{"hi"}, &bytes.Buffer{})
	require.Equal(t, 0, code)
	require.Zero(t, player.plays)

	synth.err = nil
	player.err = playback.ErrNoPlayer

	code = run(context.Background(), []string{"hi"}, &bytes.Buffer{})
	require.Equal(t, 0, code)
	require.Equal(t, 1, player.plays)
}

// TestRunKeySurvivesBadConfig verifies a key from the environment is still
// used when another setting or the dotenv file cannot be parsed.
func TestRunKeySurvivesBadConfig(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name: "bad timeout",
			setup: func(t *testing.T) {
				t.Setenv("HOOKVOICE_TTS_TIMEOUT", "ten seconds")
			},
		},
		{
			name: "broken dotenv",
			setup: func(t *testing.T) {
				path := filepath.Join(t.TempDir(), ".env")
				require.NoError(t, os.WriteFile(path, []byte(
					"not a dotenv line\n",
				), 0o600))
				t.Setenv("HOOKVOICE_ENV_FILE", path)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			synth, player := setupHelper(t, "sk")
			tc.setup(t)

			var stderr bytes.Buffer
			code := run(
				context.Background(), []string{"All done!"},
				&stderr,
			)

			require.Equal(t, 0, code)
			require.Equal(t, []string{"All done!"}, synth.texts)
			require.Equal(t, 1, player.plays)
			require.Contains(t, stderr.String(), "elevenlabs-tts:")
		})
	}
}
