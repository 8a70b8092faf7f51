package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SettingsFile is the host's settings file inside its config directory.
const SettingsFile = "settings.json"

// ClaudeSettings represents the structure of ~/.claude/settings.json.
type ClaudeSettings struct {
	Hooks map[string][]HookEntry

	// rawData keeps every other key so a save does not drop them.
	rawData map[string]any

	// rawEvents keeps hook events whose value is not a list of entries.
	rawEvents map[string]any
}

// DefaultClaudeDir returns ~/.claude.
func DefaultClaudeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".claude"), nil
}

// HookEntry represents a hook configuration in settings.json.
type HookEntry struct {
	Matcher string        `json:"matcher"`
	Hooks   []HookCommand `json:"hooks"`

	// raw is the entry exactly as it was loaded. Entries that came from
	// disk are written back from it unchanged, so fields this package
	// does not model survive.
	raw any
}

// HookCommand represents a single hook command.
type HookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// DefaultCommand is how the host invokes the hook binary when no absolute
// path is given to the installer.
const DefaultCommand = "hookvoice"

// notificationTimeout and stopTimeout give the host's hook runner slack over
// the speech timeout. Values are in seconds.
const (
	notificationTimeout = 15
	postToolUseTimeout  = 5
	stopTimeout         = 15
)

// InstallOptions selects how the hooks are registered.
type InstallOptions struct {
	// Command is the hookvoice executable, as the host should run it.
	Command string

	// Notify adds --notify to the notification hook.
	Notify bool

	// Chat adds --chat to the stop hook.
	Chat bool
}

// DefaultInstallOptions speaks on both notification and stop.
func DefaultInstallOptions() InstallOptions {
	return InstallOptions{
		Command: DefaultCommand,
		Notify:  true,
		Chat:    true,
	}
}

// HookDefinitions returns the settings.json entries for the given options,
// keyed by host event name.
func HookDefinitions(opts InstallOptions) map[string]HookEntry {
	command := opts.Command
	if command == "" {
		command = DefaultCommand
	}

	notification := command + " " + HookNotification
	if opts.Notify {
		notification += " --notify"
	}

	stop := command + " " + HookStop
	if opts.Chat {
		stop += " --chat"
	}

	return map[string]HookEntry{
		"Notification": {
			Hooks: []HookCommand{{
				Type:    "command",
				Command: notification,
				Timeout: notificationTimeout,
			}},
		},
		"PostToolUse": {
			Hooks: []HookCommand{{
				Type:    "command",
				Command: command + " " + HookPostToolUse,
				Timeout: postToolUseTimeout,
			}},
		},
		"Stop": {
			Hooks: []HookCommand{{
				Type:    "command",
				Command: stop,
				Timeout: stopTimeout,
			}},
		},
	}
}

// LoadSettings loads the Claude settings file.
func LoadSettings(claudeDir string) (*ClaudeSettings, error) {
	settingsPath := filepath.Join(claudeDir, SettingsFile)

	settings := &ClaudeSettings{
		Hooks:   make(map[string][]HookEntry),
		rawData: make(map[string]any),
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &settings.rawData); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	hooksRaw, ok := settings.rawData["hooks"].(map[string]any)
	if !ok {
		return settings, nil
	}

	for event, entries := range hooksRaw {
		entriesArr, ok := entries.([]any)
		if !ok {
			if settings.rawEvents == nil {
				settings.rawEvents = make(map[string]any)
			}
			settings.rawEvents[event] = entries
			continue
		}

		hookEntries := make([]HookEntry, 0, len(entriesArr))
		for _, entryRaw := range entriesArr {
			hookEntries = append(hookEntries, parseHookEntry(entryRaw))
		}
		settings.Hooks[event] = hookEntries
	}

	return settings, nil
}

// parseHookEntry reads the fields we care about from one raw entry and
// keeps the original alongside them.
func parseHookEntry(entryRaw any) HookEntry {
	entry := HookEntry{raw: entryRaw}

	entryMap, ok := entryRaw.(map[string]any)
	if !ok {
		return entry
	}

	entry.Matcher = getStringField(entryMap, "matcher")

	hooksArr, ok := entryMap["hooks"].([]any)
	if !ok {
		return entry
	}

	for _, hookRaw := range hooksArr {
		hookMap, ok := hookRaw.(map[string]any)
		if !ok {
			continue
		}
		entry.Hooks = append(entry.Hooks, HookCommand{
			Type:    getStringField(hookMap, "type"),
			Command: getStringField(hookMap, "command"),
			Timeout: getIntField(hookMap, "timeout"),
		})
	}

	return entry
}

// encodeHookEntry returns the JSON form of an entry. Loaded entries are
// returned as they were read.
func encodeHookEntry(entry HookEntry) any {
	if entry.raw != nil {
		return entry.raw
	}

	entryMap := make(map[string]any)
	if entry.Matcher != "" {
		entryMap["matcher"] = entry.Matcher
	}

	hooksArr := make([]any, 0, len(entry.Hooks))
	for _, hook := range entry.Hooks {
		hookMap := map[string]any{
			"type":    hook.Type,
			"command": hook.Command,
		}
		if hook.Timeout > 0 {
			hookMap["timeout"] = hook.Timeout
		}
		hooksArr = append(hooksArr, hookMap)
	}
	entryMap["hooks"] = hooksArr

	return entryMap
}

// SaveSettings saves the Claude settings file.
func SaveSettings(claudeDir string, settings *ClaudeSettings) error {
	settingsPath := filepath.Join(claudeDir, SettingsFile)

	// Merge hooks back into raw data.
	if settings.rawData == nil {
		settings.rawData = make(map[string]any)
	}

	hooksRaw := make(map[string]any, len(settings.Hooks))
	for event, value := range settings.rawEvents {
		hooksRaw[event] = value
	}
	for event, entries := range settings.Hooks {
		entriesRaw := make([]any, 0, len(entries))
		for _, entry := range entries {
			entriesRaw = append(entriesRaw, encodeHookEntry(entry))
		}
		hooksRaw[event] = entriesRaw
	}

	if len(hooksRaw) > 0 {
		settings.rawData["hooks"] = hooksRaw
	} else {
		delete(settings.rawData, "hooks")
	}

	data, err := json.MarshalIndent(settings.rawData, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Ensure directory exists.
	if err := os.MkdirAll(claudeDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write through a temp file so the host never sees a half written
	// settings file.
	tmp, err := os.CreateTemp(claudeDir, SettingsFile+".*")
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	if err := os.Rename(tmp.Name(), settingsPath); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// InstallHooks adds hookvoice hooks to the settings. Existing entries for
// other tools are kept, and a previous hookvoice entry for an event is
// replaced so flag changes take effect.
func InstallHooks(settings *ClaudeSettings, opts InstallOptions) {
	for event, hookDef := range HookDefinitions(opts) {
		entries := slices.DeleteFunc(
			slices.Clone(settings.Hooks[event]), isHookvoiceHook,
		)
		settings.Hooks[event] = append(entries, hookDef)
	}
}

// UninstallHooks removes hookvoice hooks from the settings.
func UninstallHooks(settings *ClaudeSettings) {
	for event, entries := range settings.Hooks {
		filtered := make([]HookEntry, 0, len(entries))
		for _, entry := range entries {
			if !isHookvoiceHook(entry) {
				filtered = append(filtered, entry)
			}
		}
		if len(filtered) > 0 {
			settings.Hooks[event] = filtered
		} else {
			delete(settings.Hooks, event)
		}
	}
}

// IsInstalled reports whether every hookvoice event is registered.
func IsInstalled(settings *ClaudeSettings) bool {
	for event := range HookDefinitions(DefaultInstallOptions()) {
		entries, ok := settings.Hooks[event]
		if !ok || !slices.ContainsFunc(entries, isHookvoiceHook) {
			return false
		}
	}

	return true
}

// GetInstalledHookEvents returns which events have hookvoice hooks
// installed, sorted.
func GetInstalledHookEvents(settings *ClaudeSettings) []string {
	var events []string
	for event, entries := range settings.Hooks {
		if slices.ContainsFunc(entries, isHookvoiceHook) {
			events = append(events, event)
		}
	}
	slices.Sort(events)

	return events
}

// isHookvoiceHook reports whether an entry runs one of our hook
// subcommands.
func isHookvoiceHook(entry HookEntry) bool {
	return slices.ContainsFunc(entry.Hooks, func(hook HookCommand) bool {
		fields := strings.Fields(hook.Command)
		if len(fields) < 2 {
			return false
		}

		bin := filepath.Base(strings.Trim(fields[0], `"'`))
		if bin != DefaultCommand {
			return false
		}

		switch fields[1] {
		case HookNotification, HookPostToolUse, HookStop:
			return true
		}

		return false
	})
}

// getStringField safely gets a string field from a map.
func getStringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getIntField safely gets an int field from a map. JSON numbers
// unmarshal as float64, so we handle that conversion.
func getIntField(m map[string]any, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}
