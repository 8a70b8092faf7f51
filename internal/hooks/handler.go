// Package hooks implements the Claude Code hook behaviours and the
// settings.json installer that registers them.
package hooks

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/hookvoice/internal/db"
	"github.com/roasbeef/hookvoice/internal/event"
	"github.com/roasbeef/hookvoice/internal/speech"
)

// Hook names, as used for the subcommands and the journal.
const (
	HookNotification = "notification"
	HookPostToolUse  = "post-tool-use"
	HookStop         = "stop"
)

// Journal outcomes that are not speech outcomes.
const (
	outcomeMalformed = "malformed"
	outcomeSkipped   = "skipped"
)

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	// Speaker voices messages.
	Speaker speech.Speaker

	// Rand drives message choice.
	Rand speech.Rand

	// EngineerName personalizes some notifications.
	EngineerName fn.Option[string]

	// Journal records each invocation when set.
	Journal fn.Option[db.Recorder]

	// RunID identifies this invocation in logs and the journal.
	RunID string

	// Now is the clock used for journal timestamps.
	Now func() time.Time
}

// Report describes what one hook invocation did.
type Report struct {
	// Hook is the hook name.
	Hook string

	// Payload is the parsed event, or the reason it could not be parsed.
	Payload fn.Result[event.Payload]

	// Text is what the hook asked to be spoken, if anything.
	Text fn.Option[string]

	// Speech is the speech outcome when a speech call was made.
	Speech fn.Option[speech.Result]
}

// Handler runs the hooks. Every method returns a Report and never an error:
// a hook must let the host carry on no matter what happened.
type Handler struct {
	cfg HandlerConfig
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Handler{cfg: cfg}
}

// Notification speaks when the agent needs the user, gated by notify and the
// idle-prompt filter.
func (h *Handler) Notification(ctx context.Context,
	payload fn.Result[event.Payload], notify bool) Report {

	report := Report{Hook: HookNotification, Payload: payload}

	p, err := payload.Unpack()
	switch {
	case err != nil:
		log.DebugS(ctx, "Ignoring unreadable notification payload",
			"reason", err.Error())

	case !ShouldNotify(notify, p):
		log.DebugS(ctx, "Notification gated", "notify", notify,
			"message", p.Message().UnwrapOr(""))

	default:
		text := speech.NotificationMessage(
			h.cfg.EngineerName, h.cfg.Rand,
		)
		report = h.speak(ctx, report, text)
	}

	h.record(ctx, report)

	return report
}

// Stop announces task completion when chat is set.
func (h *Handler) Stop(ctx context.Context, payload fn.Result[event.Payload],
	chat bool) Report {

	report := Report{Hook: HookStop, Payload: payload}

	_, err := payload.Unpack()
	switch {
	case err != nil:
		log.DebugS(ctx, "Ignoring unreadable stop payload",
			"reason", err.Error())

	case !chat:
		log.DebugS(ctx, "Completion announcement disabled")

	default:
		report = h.speak(
			ctx, report, speech.CompletionMessage(h.cfg.Rand),
		)
	}

	h.record(ctx, report)

	return report
}

// PostToolUse only parses and records the event.
func (h *Handler) PostToolUse(ctx context.Context,
	payload fn.Result[event.Payload]) Report {

	report := Report{Hook: HookPostToolUse, Payload: payload}

	payload.WhenOk(func(p event.Payload) {
		log.TraceS(ctx, "Tool used",
			"tool", p.ToolName().UnwrapOr(""),
			"session", p.SessionID().UnwrapOr(""))
	})

	h.record(ctx, report)

	return report
}

// speak makes the single speech call for this invocation.
func (h *Handler) speak(ctx context.Context, report Report,
	text string) Report {

	res := h.cfg.Speaker.Speak(ctx, text)

	switch res.Outcome {
	case speech.OutcomeFailed:
		log.WarnS(ctx, "Speech failed", nil, "hook", report.Hook,
			"reason", res.Reason)

	default:
		log.InfoS(ctx, "Speech finished", "hook", report.Hook,
			"text", text, "result", res.String())
	}

	report.Text = fn.Some(text)
	report.Speech = fn.Some(res)

	return report
}

// record writes the report to the journal, if one is configured. Journal
// errors are logged and otherwise ignored.
func (h *Handler) record(ctx context.Context, report Report) {
	h.cfg.Journal.WhenSome(func(journal db.Recorder) {
		err := journal.Record(ctx, h.entry(report))
		if err != nil {
			log.WarnS(ctx, "Unable to record hook run", err,
				"hook", report.Hook)
		}
	})
}

// entry flattens a report into a journal row.
func (h *Handler) entry(report Report) db.Entry {
	entry := db.Entry{
		RunID:     h.cfg.RunID,
		Hook:      report.Hook,
		Message:   report.Text.UnwrapOr(""),
		Outcome:   outcomeSkipped,
		CreatedAt: h.cfg.Now(),
	}

	p, err := report.Payload.Unpack()
	if err != nil {
		entry.Outcome = outcomeMalformed
		entry.Detail = err.Error()

		return entry
	}

	entry.SessionID = p.SessionID().UnwrapOr("")
	entry.HookEventName = p.HookEventName().UnwrapOr("")
	entry.ToolName = p.ToolName().UnwrapOr("")
	if entry.Message == "" {
		entry.Message = p.Message().UnwrapOr("")
	}

	report.Speech.WhenSome(func(res speech.Result) {
		entry.Outcome = res.Outcome.String()
		entry.Detail = res.Reason
	})

	return entry
}
