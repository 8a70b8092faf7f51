//go:build unix

package playback

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakePlayer writes a shell script named name into dir.
func fakePlayer(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(
		path, []byte("#!/bin/sh\n"+body+"\n"), 0o755,
	))

	return path
}

// lookIn resolves names only inside dir.
func lookIn(dir string) func(string) (string, error) {
	return func(name string) (string, error) {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			return "", exec.ErrNotFound
		}
		return path, nil
	}
}

// TestPlayStdinBackend verifies audio reaches the player on stdin.
func TestPlayStdinBackend(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "played")
	fakePlayer(t, dir, "ffplay", "cat > "+out)

	p := NewExecPlayer()
	p.lookPath = lookIn(dir)

	require.NoError(t, p.Play(context.Background(), []byte("mp3-bytes")))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "mp3-bytes", string(got))
}

// TestPlayFileBackend verifies file-based players get a temp file that is
// removed afterwards.
func TestPlayFileBackend(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "played")
	seen := filepath.Join(dir, "path")
	fakePlayer(t, dir, "afplay",
		`cp "$1" `+out+` && printf '%s' "$1" > `+seen)

	p := NewExecPlayer()
	p.lookPath = lookIn(dir)

	require.NoError(t, p.Play(context.Background(), []byte("clip")))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "clip", string(got))

	tmp, err := os.ReadFile(seen)
	require.NoError(t, err)
	_, err = os.Stat(string(tmp))
	require.True(t, os.IsNotExist(err), "temp file should be removed")
}

// TestPlayPrefersEarlierBackend verifies backend order is respected.
func TestPlayPrefersEarlierBackend(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "which")
	fakePlayer(t, dir, "ffplay", "cat >/dev/null; echo ffplay > "+marker)
	fakePlayer(t, dir, "mpv", "cat >/dev/null; echo mpv > "+marker)

	p := NewExecPlayer()
	p.lookPath = lookIn(dir)

	require.NoError(t, p.Play(context.Background(), []byte("x")))

	got, err := os.ReadFile(marker)
	require.NoError(t, err)
	require.Equal(t, "ffplay\n", string(got))
}

// TestPlayNoBackend verifies the sentinel error when nothing is installed.
func TestPlayNoBackend(t *testing.T) {
	p := NewExecPlayer()
	p.lookPath = lookIn(t.TempDir())

	err := p.Play(context.Background(), []byte("x"))
	require.True(t, errors.Is(err, ErrNoPlayer))
}

// TestPlayBackendFailure verifies player errors carry its stderr.
func TestPlayBackendFailure(t *testing.T) {
	dir := t.TempDir()
	fakePlayer(t, dir, "mpv", "cat >/dev/null; echo 'bad codec' >&2; exit 2")

	p := NewExecPlayer()
	p.lookPath = lookIn(dir)

	err := p.Play(context.Background(), []byte("x"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad codec")
}

// TestPlayEmptyAudio verifies nothing is spawned for an empty clip.
func TestPlayEmptyAudio(t *testing.T) {
	p := NewExecPlayer()
	p.lookPath = func(string) (string, error) {
		t.Fatal("lookPath must not be called")
		return "", nil
	}

	require.Error(t, p.Play(context.Background(), nil))
}
