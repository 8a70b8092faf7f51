package commands

import (
	"fmt"
	"path/filepath"

	"github.com/roasbeef/hookvoice/internal/hooks"
	"github.com/spf13/cobra"
)

var (
	// installNotify adds --notify to the registered notification hook.
	installNotify bool

	// installChat adds --chat to the registered stop hook.
	installChat bool

	// installCommand is how the host should run hookvoice.
	installCommand string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register hookvoice hooks in ~/.claude/settings.json",
	Long: `Register the Notification, PostToolUse and Stop hooks in Claude Code's
settings.json.

Existing settings and hooks from other tools are preserved. Running install
again replaces the previous hookvoice entries, so it can be used to change
the --notify and --chat choices.`,
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove hookvoice hooks from ~/.claude/settings.json",
	Long:  `Remove hookvoice hooks from settings.json, leaving all other hooks.`,
	RunE:  runUninstall,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether hookvoice hooks are installed",
	RunE:  runStatus,
}

func init() {
	installCmd.Flags().BoolVar(
		&installNotify, "notify", true,
		"Speak on notifications that need input",
	)
	installCmd.Flags().BoolVar(
		&installChat, "chat", true,
		"Speak when a task completes",
	)
	installCmd.Flags().StringVar(
		&installCommand, "command", hooks.DefaultCommand,
		"Command Claude Code runs for the hooks",
	)
}

func runInstall(cmd *cobra.Command, args []string) error {
	dir, err := getClaudeDir()
	if err != nil {
		return err
	}

	settings, err := hooks.LoadSettings(dir)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	hooks.InstallHooks(settings, hooks.InstallOptions{
		Command: installCommand,
		Notify:  installNotify,
		Chat:    installChat,
	})

	if err := hooks.SaveSettings(dir, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "hookvoice hooks installed.")
	fmt.Fprintf(out, "  Settings: %s\n", filepath.Join(dir, hooks.SettingsFile))
	for _, event := range hooks.GetInstalledHookEvents(settings) {
		fmt.Fprintf(out, "  - %s\n", event)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Start a new Claude Code session to activate the hooks.")

	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	dir, err := getClaudeDir()
	if err != nil {
		return err
	}

	settings, err := hooks.LoadSettings(dir)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	hooks.UninstallHooks(settings)

	if err := hooks.SaveSettings(dir, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "hookvoice hooks uninstalled.")
	fmt.Fprintf(out, "  Updated: %s\n", filepath.Join(dir, hooks.SettingsFile))

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	dir, err := getClaudeDir()
	if err != nil {
		return err
	}

	settings, err := hooks.LoadSettings(dir)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	settingsPath := filepath.Join(dir, hooks.SettingsFile)
	installed := hooks.IsInstalled(settings)
	events := hooks.GetInstalledHookEvents(settings)

	out := cmd.OutOrStdout()
	switch outputFormat {
	case "json":
		return outputJSON(out, map[string]any{
			"installed":     installed,
			"hook_events":   events,
			"settings_path": settingsPath,
		})

	default:
		switch {
		case installed:
			fmt.Fprintln(out, "Status: INSTALLED")
		case len(events) > 0:
			fmt.Fprintln(out, "Status: PARTIAL (run 'hookvoice "+
				"install' to complete)")
		default:
			fmt.Fprintln(out, "Status: NOT INSTALLED")
		}

		fmt.Fprintf(out, "Settings: %s\n", settingsPath)
		fmt.Fprintln(out, "Hooks in settings.json:")
		if len(events) == 0 {
			fmt.Fprintln(out, "  None")
		}
		for _, event := range events {
			fmt.Fprintf(out, "  - %s\n", event)
		}
	}

	return nil
}
