package commands

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/hookvoice/internal/event"
	"github.com/roasbeef/hookvoice/internal/hooks"
)

var postToolUseCmd = newHookCommand(
	hooks.HookPostToolUse,
	"PostToolUse hook: accept the event and continue",
	`Reads a Claude Code PostToolUse event on stdin and exits 0. The event is
recorded when the journal is enabled.`,
	runPostToolUse,
)

func runPostToolUse(ctx context.Context, h *hooks.Handler,
	payload fn.Result[event.Payload]) hooks.Report {

	return h.PostToolUse(ctx, payload)
}
