//go:build unix

package speech

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
)

// writeHelper writes an executable shell script standing in for the real
// speech helper and returns its path. Tests that write helpers do not run in
// parallel: a concurrent fork can hold the script open and make exec fail
// with ETXTBSY.
func writeHelper(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, HelperName)
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

// recordingHelper writes a helper that records its argument count, its
// first argument and the API key it was given, then exits with code.
func recordingHelper(t *testing.T, dir string, code int) (string, string) {
	t.Helper()

	record := filepath.Join(dir, "record.txt")
	body := `printf '%s\n%s\n%s\n' "$#" "$1" "$ELEVENLABS_API_KEY" > ` +
		record + "\nexit " + strconv.Itoa(code)

	return writeHelper(t, dir, body), record
}

func readRecord(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// TestInvokerSpeaks verifies the helper gets the text as one argument and
// the API key through its environment.
func TestInvokerSpeaks(t *testing.T) {
	dir := t.TempDir()
	helper, record := recordingHelper(t, dir, 0)

	inv := NewInvoker(InvokerConfig{
		HelperPath: fn.Some(helper),
		APIKey:     fn.Some("sk-123"),
		Timeout:    5 * time.Second,
	})

	res := inv.Speak(context.Background(), "Your agent needs your input")
	require.True(t, res.Ok(), res.String())

	lines := readRecord(t, record)
	require.Equal(t, []string{
		"1", "Your agent needs your input", "sk-123",
	}, lines)
}

// TestInvokerMissingHelper verifies a missing helper disables speech.
func TestInvokerMissingHelper(t *testing.T) {
	inv := NewInvoker(InvokerConfig{
		HelperPath: fn.Some(filepath.Join(t.TempDir(), "nope")),
		APIKey:     fn.Some("sk-123"),
	})

	res := inv.Speak(context.Background(), "hello")
	require.Equal(t, OutcomeDisabled, res.Outcome)
	require.Contains(t, res.Reason, ErrHelperNotFound.Error())
}

// TestInvokerMissingAPIKey verifies nothing is spawned without a key.
func TestInvokerMissingAPIKey(t *testing.T) {
	dir := t.TempDir()
	helper, record := recordingHelper(t, dir, 0)

	inv := NewInvoker(InvokerConfig{
		HelperPath: fn.Some(helper),
	})

	res := inv.Speak(context.Background(), "hello")
	require.Equal(t, OutcomeDisabled, res.Outcome)

	_, err := os.Stat(record)
	require.True(t, os.IsNotExist(err), "helper must not run")
}

// TestInvokerHelperFailure verifies a non-zero exit is reported.
func TestInvokerHelperFailure(t *testing.T) {
	helper, _ := recordingHelper(t, t.TempDir(), 3)

	inv := NewInvoker(InvokerConfig{
		HelperPath: fn.Some(helper),
		APIKey:     fn.Some("sk-123"),
	})

	res := inv.Speak(context.Background(), "hello")
	require.Equal(t, OutcomeFailed, res.Outcome)
	require.Contains(t, res.Reason, "status 3")
}

// TestInvokerTimeout verifies a helper that hangs is killed once the
// timeout passes.
func TestInvokerTimeout(t *testing.T) {
	helper := writeHelper(t, t.TempDir(), "sleep 30")

	inv := NewInvoker(InvokerConfig{
		HelperPath: fn.Some(helper),
		APIKey:     fn.Some("sk-123"),
		Timeout:    200 * time.Millisecond,
	})

	start := time.Now()
	res := inv.Speak(context.Background(), "hello")
	elapsed := time.Since(start)

	require.Equal(t, OutcomeFailed, res.Outcome)
	require.Contains(t, res.Reason, "timed out")
	require.Less(t, elapsed, 5*time.Second)
}

// TestInvokerCancelled verifies a cancelled caller context is reported as
// a failure rather than a timeout.
func TestInvokerCancelled(t *testing.T) {
	helper := writeHelper(t, t.TempDir(), "sleep 30")

	inv := NewInvoker(InvokerConfig{
		HelperPath: fn.Some(helper),
		APIKey:     fn.Some("sk-123"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	res := inv.Speak(ctx, "hello")
	require.Equal(t, OutcomeFailed, res.Outcome)
	require.Contains(t, res.Reason, "cancelled")
}

// TestInvokerSiblingHelper verifies a helper installed next to the running
// binary is found without configuration.
func TestInvokerSiblingHelper(t *testing.T) {
	dir := t.TempDir()
	_, record := recordingHelper(t, dir, 0)

	inv := NewInvoker(InvokerConfig{APIKey: fn.Some("sk-123")})
	inv.executable = func() (string, error) {
		return filepath.Join(dir, "hookvoice"), nil
	}

	res := inv.Speak(context.Background(), "All done!")
	require.True(t, res.Ok(), res.String())
	require.Equal(t, "All done!", readRecord(t, record)[1])
}

// TestInvokerDefaultTimeout verifies the zero value falls back to the
// ten second bound.
func TestInvokerDefaultTimeout(t *testing.T) {
	inv := NewInvoker(InvokerConfig{})
	require.Equal(t, 10*time.Second, inv.cfg.Timeout)
}
