// Package config loads the settings shared by the hook commands and the
// speech helper. Everything comes from the process environment, optionally
// seeded from a dotenv file, and is resolved once at startup.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/spf13/viper"
)

const (
	// DefaultVoiceID is the ElevenLabs premade "Rachel" voice.
	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

	// DefaultModelID is the synthesis model used when none is set.
	DefaultModelID = "eleven_multilingual_v2"

	// DefaultSpeechTimeout bounds a single helper invocation.
	DefaultSpeechTimeout = 10 * time.Second

	// DefaultLogLevel is used when HOOKVOICE_LOG_LEVEL is unset.
	DefaultLogLevel = "info"

	// DotEnvFile is the file name searched for when no explicit env file
	// is configured.
	DotEnvFile = ".env"
)

// Keys, as seen by viper. Each is bound to the upper-cased environment
// variable of the same name.
const (
	keyAPIKey        = "elevenlabs_api_key"
	keyVoiceID       = "elevenlabs_voice_id"
	keyModelID       = "elevenlabs_model_id"
	keyEngineerName  = "engineer_name"
	keyHelperPath    = "hookvoice_tts_helper"
	keySpeechTimeout = "hookvoice_tts_timeout"
	keyLogDir        = "hookvoice_log_dir"
	keyLogLevel      = "hookvoice_log_level"
	keyLogStderr     = "hookvoice_log_stderr"
	keyJournal       = "hookvoice_journal"
	keyEnvFile       = "hookvoice_env_file"
)

// Config is the resolved configuration for one process.
type Config struct {
	// APIKey authenticates against the ElevenLabs API. Speech is disabled
	// when it is absent.
	APIKey fn.Option[string]

	// VoiceID selects the ElevenLabs voice.
	VoiceID string

	// ModelID selects the ElevenLabs synthesis model.
	ModelID string

	// EngineerName optionally personalizes notifications.
	EngineerName fn.Option[string]

	// HelperPath overrides how the speech helper binary is located.
	HelperPath fn.Option[string]

	// SpeechTimeout bounds one helper invocation.
	SpeechTimeout time.Duration

	// LogDir holds the rotating log file. Empty disables file logging.
	LogDir string

	// LogLevel is the btclog level name.
	LogLevel string

	// LogStderr mirrors log output to stderr.
	LogStderr bool

	// JournalPath enables the SQLite invocation journal.
	JournalPath fn.Option[string]

	// EnvFile is the dotenv file that was loaded, if any.
	EnvFile fn.Option[string]
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		VoiceID:       DefaultVoiceID,
		ModelID:       DefaultModelID,
		SpeechTimeout: DefaultSpeechTimeout,
		LogDir:        DefaultLogDir(),
		LogLevel:      DefaultLogLevel,
	}
}

// DefaultLogDir returns ~/.claude/hooks/logs, or an empty string if the home
// directory is unknown.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".claude", "hooks", "logs")
}

// Load resolves the configuration from the environment. A dotenv file named
// by HOOKVOICE_ENV_FILE, or else the nearest .env walking up from the working
// directory, is read first; real environment variables take precedence over
// its values. A missing dotenv file is not an error.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}

	return LoadFrom(wd)
}

// LoadFrom is Load with an explicit directory to start the dotenv search
// from.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault(keyVoiceID, DefaultVoiceID)
	v.SetDefault(keyModelID, DefaultModelID)
	v.SetDefault(keySpeechTimeout, DefaultSpeechTimeout.String())
	v.SetDefault(keyLogDir, DefaultLogDir())
	v.SetDefault(keyLogLevel, DefaultLogLevel)
	v.SetDefault(keyLogStderr, false)

	for _, key := range []string{
		keyAPIKey, keyVoiceID, keyModelID, keyEngineerName,
		keyHelperPath, keySpeechTimeout, keyLogDir, keyLogLevel,
		keyLogStderr, keyJournal, keyEnvFile,
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	cfg := Default()

	// Problems with individual settings are collected rather than
	// returned early, so the fields that did resolve are still usable.
	var errs []error

	envFile := findEnvFile(v.GetString(keyEnvFile), dir)
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil {
			errs = append(errs, fmt.Errorf("failed to read %s: %w",
				envFile, err))
		} else {
			cfg.EnvFile = fn.Some(envFile)
		}
	}

	timeout, err := time.ParseDuration(v.GetString(keySpeechTimeout))
	if err != nil || timeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid %s %q, using %v",
			strings.ToUpper(keySpeechTimeout),
			v.GetString(keySpeechTimeout), DefaultSpeechTimeout))
		timeout = DefaultSpeechTimeout
	}

	cfg.APIKey = nonBlank(v.GetString(keyAPIKey))
	cfg.VoiceID = orDefault(v.GetString(keyVoiceID), DefaultVoiceID)
	cfg.ModelID = orDefault(v.GetString(keyModelID), DefaultModelID)
	cfg.EngineerName = nonBlank(v.GetString(keyEngineerName))
	cfg.HelperPath = nonBlank(v.GetString(keyHelperPath))
	cfg.SpeechTimeout = timeout
	cfg.LogDir = strings.TrimSpace(v.GetString(keyLogDir))
	cfg.LogLevel = orDefault(v.GetString(keyLogLevel), DefaultLogLevel)
	cfg.LogStderr = v.GetBool(keyLogStderr)

	journal, err := journalPath(v.GetString(keyJournal))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.JournalPath = journal

	return cfg, errors.Join(errs...)
}

// LoadOrDefault loads the configuration for callers that must keep going.
// The returned config is never nil: settings that failed to resolve keep
// their defaults and the rest are filled in as usual. Hooks use this because
// a broken config must not stop the host.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if cfg == nil {
		return Default(), err
	}

	return cfg, err
}

// DefaultJournalPath returns where the journal lives when HOOKVOICE_JOURNAL
// is a boolean switch rather than a path.
func DefaultJournalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".claude", "hooks", "hookvoice.db"), nil
}

// journalPath interprets HOOKVOICE_JOURNAL. A boolean switch selects the
// default location, "false" and friends disable the journal, anything else
// is a path.
func journalPath(raw string) (fn.Option[string], error) {
	raw = strings.TrimSpace(raw)

	switch strings.ToLower(raw) {
	case "", "0", "false", "no", "off":
		return fn.None[string](), nil

	case "1", "true", "yes", "on":
		path, err := DefaultJournalPath()
		if err != nil {
			return fn.None[string](), err
		}
		return fn.Some(path), nil
	}

	return fn.Some(raw), nil
}

// ErrNoAPIKey is returned when an operation needs the ElevenLabs API key and
// none is configured.
var ErrNoAPIKey = errors.New("ELEVENLABS_API_KEY is not set")

// RequireAPIKey returns the API key or ErrNoAPIKey.
func (c *Config) RequireAPIKey() (string, error) {
	return c.APIKey.UnwrapOrErr(ErrNoAPIKey)
}

// findEnvFile returns the explicit file if given, otherwise the nearest
// .env in dir or one of its parents.
func findEnvFile(explicit, dir string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if dir == "" {
		return ""
	}

	for {
		candidate := filepath.Join(dir, DotEnvFile)
		if info, err := os.Stat(candidate); err == nil &&
			!info.IsDir() {

			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func nonBlank(s string) fn.Option[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return fn.None[string]()
	}

	return fn.Some(s)
}

func orDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	return s
}

// LogSummary writes the effective settings at debug level. The API key is
// only reported as present or absent.
func (c *Config) LogSummary(ctx context.Context) {
	log.DebugS(ctx, "Loaded configuration",
		"env_file", c.EnvFile.UnwrapOr("none"),
		"api_key_set", c.APIKey.IsSome(),
		"voice_id", c.VoiceID,
		"model_id", c.ModelID,
		"speech_timeout", c.SpeechTimeout,
		"journal", c.JournalPath.UnwrapOr("disabled"))
}
