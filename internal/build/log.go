package build

import (
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
)

// LogConfig controls where a hook invocation's log records go.
type LogConfig struct {
	// Dir is the directory holding the rotating log file. An empty Dir
	// disables file logging.
	Dir string

	// Level is the btclog level name (trace, debug, info, warn, error,
	// critical, off).
	Level string

	// Stderr also mirrors records to standard error. Hook stdout is read
	// by the host, so stdout is never used.
	Stderr bool

	// Prefix is prepended to every message, used for the run id.
	Prefix string
}

// Logging owns the log backends for one process.
type Logging struct {
	writer  *RotatingLogWriter
	handler btclogv2.Handler
	level   btclog.Level
}

// NewLogging sets up the configured backends. If the log directory cannot be
// prepared, file logging is dropped and the returned error says why; the
// returned Logging is always usable.
func NewLogging(cfg *LogConfig) (*Logging, error) {
	level, ok := btclog.LevelFromString(cfg.Level)
	if !ok {
		level = btclog.LevelInfo
	}

	var (
		handlers []btclogv2.Handler
		initErr  error
	)

	writer := NewRotatingLogWriter()
	if cfg.Dir != "" {
		rotCfg := DefaultLogRotatorConfig()
		rotCfg.LogDir = cfg.Dir

		if err := writer.InitLogRotator(rotCfg); err != nil {
			initErr = fmt.Errorf("file logging disabled: %w", err)
		} else {
			handlers = append(
				handlers, btclogv2.NewDefaultHandler(writer),
			)
		}
	}

	if cfg.Stderr {
		handlers = append(handlers, btclogv2.NewDefaultHandler(os.Stderr))
	}

	// With no backend at all we still want a valid handler so loggers
	// can be created unconditionally.
	if len(handlers) == 0 {
		handlers = append(handlers, btclogv2.NewDefaultHandler(io.Discard))
		level = btclog.LevelOff
	}

	var handler btclogv2.Handler = NewHandlerSet(handlers...)
	handler.SetLevel(level)
	if cfg.Prefix != "" {
		handler = handler.WithPrefix(cfg.Prefix)
	}

	return &Logging{
		writer:  writer,
		handler: handler,
		level:   level,
	}, initErr
}

// SubLogger returns a logger tagged with the given subsystem.
func (l *Logging) SubLogger(subsystem string) btclogv2.Logger {
	logger := btclogv2.NewSLogger(l.handler.SubSystem(subsystem))
	logger.SetLevel(l.level)

	return logger
}

// Close flushes the log file.
func (l *Logging) Close() error {
	return l.writer.Close()
}
