package commands

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/hookvoice/internal/event"
	"github.com/roasbeef/hookvoice/internal/hooks"
)

// chat enables the spoken completion announcement.
var chat bool

var stopCmd = newHookCommand(
	hooks.HookStop,
	"Stop hook: announce that the agent finished",
	`Reads a Claude Code Stop event on stdin. With --chat, speaks a random
completion phrase such as "All done!". Always exits 0.`,
	runStop,
)

func init() {
	stopCmd.Flags().BoolVar(
		&chat, "chat", false,
		"Speak a completion message",
	)
}

func runStop(ctx context.Context, h *hooks.Handler,
	payload fn.Result[event.Payload]) hooks.Report {

	return h.Stop(ctx, payload, chat)
}
