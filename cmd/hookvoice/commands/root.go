package commands

import (
	"github.com/spf13/cobra"
)

var (
	// claudeDir overrides the host's config directory.
	claudeDir string

	// outputFormat controls output format (text, json).
	outputFormat string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "hookvoice",
	Short: "Spoken notifications for Claude Code hooks",
	Long: `hookvoice speaks short messages through ElevenLabs when Claude Code
needs your input or finishes a task.

The notification, post-tool-use and stop commands are meant to be run by
Claude Code as hooks: they read the event JSON on stdin and always exit 0.
Run 'hookvoice install' to register them in ~/.claude/settings.json.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&claudeDir, "claude-dir", "",
		"Claude Code config directory (default: ~/.claude)",
	)
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format: text, json",
	)

	rootCmd.AddCommand(notificationCmd)
	rootCmd.AddCommand(postToolUseCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
