package commands

import (
	"fmt"

	"github.com/roasbeef/hookvoice/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// redacted replaces the API key in printed configuration.
const redacted = "<redacted>"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration hookvoice resolves from the environment and
any .env file, as YAML. The API key is never printed.`,
	RunE: runConfig,
}

// configView is the printable form of config.Config.
type configView struct {
	EnvFile       string `yaml:"env_file" json:"env_file"`
	APIKey        string `yaml:"elevenlabs_api_key" json:"elevenlabs_api_key"`
	VoiceID       string `yaml:"elevenlabs_voice_id" json:"elevenlabs_voice_id"`
	ModelID       string `yaml:"elevenlabs_model_id" json:"elevenlabs_model_id"`
	EngineerName  string `yaml:"engineer_name" json:"engineer_name"`
	HelperPath    string `yaml:"tts_helper" json:"tts_helper"`
	SpeechTimeout string `yaml:"tts_timeout" json:"tts_timeout"`
	LogDir        string `yaml:"log_dir" json:"log_dir"`
	LogLevel      string `yaml:"log_level" json:"log_level"`
	LogStderr     bool   `yaml:"log_stderr" json:"log_stderr"`
	Journal       string `yaml:"journal" json:"journal"`
}

// newConfigView flattens cfg, hiding the API key.
func newConfigView(cfg *config.Config) configView {
	apiKey := ""
	if cfg.APIKey.IsSome() {
		apiKey = redacted
	}

	return configView{
		EnvFile:       cfg.EnvFile.UnwrapOr(""),
		APIKey:        apiKey,
		VoiceID:       cfg.VoiceID,
		ModelID:       cfg.ModelID,
		EngineerName:  cfg.EngineerName.UnwrapOr(""),
		HelperPath:    cfg.HelperPath.UnwrapOr(""),
		SpeechTimeout: cfg.SpeechTimeout.String(),
		LogDir:        cfg.LogDir,
		LogLevel:      cfg.LogLevel,
		LogStderr:     cfg.LogStderr,
		Journal:       cfg.JournalPath.UnwrapOr(""),
	}
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "hookvoice: %v\n", err)
	}

	view := newConfigView(cfg)

	if outputFormat == "json" {
		return outputJSON(cmd.OutOrStdout(), view)
	}

	data, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)

	return err
}
