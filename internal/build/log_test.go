package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
	"github.com/stretchr/testify/require"
)

// TestNewLoggingFile verifies records reach the rotating log file with their
// subsystem tag and run prefix once the logger is closed.
func TestNewLoggingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logging, err := NewLogging(&LogConfig{
		Dir:    dir,
		Level:  "debug",
		Prefix: "run1234",
	})
	require.NoError(t, err)

	log := logging.SubLogger("HOOK")
	log.DebugS(context.Background(), "Speech finished", "text", "hi")
	log.TraceS(context.Background(), "Too verbose")

	require.NoError(t, logging.Close())

	data, err := os.ReadFile(filepath.Join(dir, DefaultLogFilename))
	require.NoError(t, err)

	out := string(data)
	require.Contains(t, out, "HOOK")
	require.Contains(t, out, "run1234")
	require.Contains(t, out, "Speech finished")
	require.NotContains(t, out, "Too verbose")
}

// TestNewLoggingNoBackend verifies a logger is usable with nothing
// configured.
func TestNewLoggingNoBackend(t *testing.T) {
	t.Parallel()

	logging, err := NewLogging(&LogConfig{Level: "info"})
	require.NoError(t, err)

	logging.SubLogger("SPCH").Info("dropped")
	require.NoError(t, logging.Close())
}

// TestNewLoggingBadDir verifies an unusable directory only disables file
// logging.
func TestNewLoggingBadDir(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	logging, err := NewLogging(&LogConfig{
		Dir:   filepath.Join(file, "logs"),
		Level: "info",
	})
	require.Error(t, err)
	require.NotNil(t, logging)

	logging.SubLogger("HOOK").Info("still fine")
	require.NoError(t, logging.Close())
}

// TestHandlerSetLevels verifies each member only sees what it is enabled
// for and the set is enabled if any member is.
func TestHandlerSetLevels(t *testing.T) {
	t.Parallel()

	var verbose, quiet bytes.Buffer
	verboseHandler := btclogv2.NewDefaultHandler(&verbose)
	quietHandler := btclogv2.NewDefaultHandler(&quiet)

	set := NewHandlerSet(verboseHandler, quietHandler)
	set.SetLevel(btclog.LevelDebug)
	quietHandler.SetLevel(btclog.LevelWarn)

	// Setting the logger's level would push it down to every member, so
	// only the handlers are configured.
	log := btclogv2.NewSLogger(set.SubSystem("TEST"))

	log.Debugf("debug line")
	log.Warnf("warn line")

	require.Contains(t, verbose.String(), "debug line")
	require.Contains(t, verbose.String(), "warn line")
	require.NotContains(t, quiet.String(), "debug line")
	require.Contains(t, quiet.String(), "warn line")
}
