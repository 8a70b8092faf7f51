package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/roasbeef/hookvoice/internal/config"
	"github.com/roasbeef/hookvoice/internal/db"
	"github.com/spf13/cobra"
)

var (
	// historyLimit caps how many entries are shown.
	historyLimit int

	// historyPrune deletes entries older than this before listing.
	historyPrune time.Duration
)

// errJournalDisabled is returned by history when no journal is configured.
var errJournalDisabled = errors.New("the journal is disabled; set " +
	"HOOKVOICE_JOURNAL to a database path to enable it")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent hook invocations from the journal",
	Long: `Show recent hook invocations recorded in the SQLite journal named by
HOOKVOICE_JOURNAL, newest first.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(
		&historyLimit, "limit", db.DefaultHistoryLimit,
		"Maximum number of entries to show",
	)
	historyCmd.Flags().DurationVar(
		&historyPrune, "prune-older-than", 0,
		"Delete entries older than this before listing (e.g. 720h)",
	)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadOrDefault()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "hookvoice: %v\n", err)
	}

	path, err := cfg.JournalPath.UnwrapOrErr(errJournalDisabled)
	if err != nil {
		return err
	}

	store, err := db.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if historyPrune > 0 {
		n, err := store.Prune(ctx, time.Now().Add(-historyPrune))
		if err != nil {
			return fmt.Errorf("failed to prune journal: %w", err)
		}
		if outputFormat != "json" {
			fmt.Fprintf(out, "Pruned %d entries.\n", n)
		}
	}

	entries, err := store.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	switch outputFormat {
	case "json":
		rows := make([]map[string]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, map[string]any{
				"run_id":          e.RunID,
				"hook":            e.Hook,
				"session_id":      e.SessionID,
				"hook_event_name": e.HookEventName,
				"tool_name":       e.ToolName,
				"message":         e.Message,
				"outcome":         e.Outcome,
				"detail":          e.Detail,
				"created_at":      e.CreatedAt.UTC(),
			})
		}

		return outputJSON(out, rows)

	default:
		if len(entries) == 0 {
			fmt.Fprintln(out, "No hook runs recorded.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tHOOK\tOUTCOME\tMESSAGE\tDETAIL")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				e.CreatedAt.Local().Format(time.DateTime),
				e.Hook, e.Outcome, e.Message, e.Detail)
		}

		return tw.Flush()
	}
}
