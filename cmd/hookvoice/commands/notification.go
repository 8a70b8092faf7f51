package commands

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/hookvoice/internal/event"
	"github.com/roasbeef/hookvoice/internal/hooks"
)

// notify enables speech on the notification hook.
var notify bool

var notificationCmd = newHookCommand(
	hooks.HookNotification,
	"Notification hook: speak when the agent needs input",
	`Reads a Claude Code Notification event on stdin. With --notify, speaks a
short "your agent needs your input" message unless the notification is the
idle "Claude is waiting for your input" prompt. Always exits 0.`,
	runNotification,
)

func init() {
	notificationCmd.Flags().BoolVar(
		&notify, "notify", false,
		"Speak a message for this notification",
	)
}

func runNotification(ctx context.Context, h *hooks.Handler,
	payload fn.Result[event.Payload]) hooks.Report {

	return h.Notification(ctx, payload, notify)
}
