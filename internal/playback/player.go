// Package playback plays encoded audio through whichever command-line player
// is installed.
package playback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNoPlayer is returned when none of the known players is installed.
var ErrNoPlayer = errors.New("no audio player found (install ffmpeg or mpv)")

// Player plays an encoded audio clip to completion.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// Backend describes one external player.
type Backend struct {
	// Name is the executable looked up in $PATH.
	Name string

	// Args are passed before the input. When FromFile is false the audio
	// is written to the player's stdin.
	Args []string

	// FromFile makes the player read a temporary file, appended as the
	// last argument, instead of stdin.
	FromFile bool
}

// DefaultBackends lists the players tried, in order.
var DefaultBackends = []Backend{
	{
		Name: "ffplay",
		Args: []string{
			"-autoexit", "-nodisp", "-loglevel", "quiet", "-",
		},
	},
	{
		Name: "mpv",
		Args: []string{"--no-video", "--really-quiet", "-"},
	},
	{
		Name:     "afplay",
		FromFile: true,
	},
}

// ExecPlayer plays audio with the first available backend.
type ExecPlayer struct {
	backends []Backend
	lookPath func(string) (string, error)
}

// NewExecPlayer creates a player over the given backends, or
// DefaultBackends if none are given.
func NewExecPlayer(backends ...Backend) *ExecPlayer {
	if len(backends) == 0 {
		backends = DefaultBackends
	}

	return &ExecPlayer{
		backends: backends,
		lookPath: exec.LookPath,
	}
}

// Play blocks until the clip has finished playing or ctx is done.
func (p *ExecPlayer) Play(ctx context.Context, audio []byte) error {
	if len(audio) == 0 {
		return errors.New("no audio to play")
	}

	backend, path, err := p.pick()
	if err != nil {
		return err
	}

	args := append([]string(nil), backend.Args...)

	var cmd *exec.Cmd
	if backend.FromFile {
		tmp, err := writeTemp(audio)
		if err != nil {
			return err
		}
		defer os.Remove(tmp)

		args = append(args, tmp)
		cmd = exec.CommandContext(ctx, path, args...)
	} else {
		cmd = exec.CommandContext(ctx, path, args...)
		cmd.Stdin = bytes.NewReader(audio)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.DebugS(ctx, "Playing audio", "player", backend.Name,
		"bytes", len(audio))

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s failed: %w: %s", backend.Name,
				err, msg)
		}

		return fmt.Errorf("%s failed: %w", backend.Name, err)
	}

	return nil
}

// pick returns the first backend found in $PATH.
func (p *ExecPlayer) pick() (Backend, string, error) {
	for _, backend := range p.backends {
		path, err := p.lookPath(backend.Name)
		if err == nil {
			return backend, path, nil
		}
	}

	return Backend{}, "", ErrNoPlayer
}

func writeTemp(audio []byte) (string, error) {
	f, err := os.CreateTemp("", "hookvoice-*.mp3")
	if err != nil {
		return "", fmt.Errorf("create temp audio file: %w", err)
	}

	if _, err := f.Write(audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp audio file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp audio file: %w", err)
	}

	return f.Name(), nil
}

// Ensure ExecPlayer implements Player at compile time.
var _ Player = (*ExecPlayer)(nil)
