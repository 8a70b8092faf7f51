// Package event decodes the JSON payload a Claude Code hook receives on
// standard input.
package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/term"
)

var (
	// ErrEmptyPayload is returned when there is nothing to decode.
	ErrEmptyPayload = errors.New("empty hook payload")

	// ErrNotObject is returned when the payload is valid JSON but not a
	// JSON object.
	ErrNotObject = errors.New("hook payload is not a JSON object")
)

// Payload is one hook event. The host sends an open-ended object, so the raw
// key/value form is kept and typed accessors pull out the fields we use.
type Payload map[string]any

// Message returns the "message" field if it is present and a string.
func (p Payload) Message() fn.Option[string] {
	return p.stringField("message")
}

// SessionID returns the "session_id" field.
func (p Payload) SessionID() fn.Option[string] {
	return p.stringField("session_id")
}

// HookEventName returns the "hook_event_name" field.
func (p Payload) HookEventName() fn.Option[string] {
	return p.stringField("hook_event_name")
}

// ToolName returns the "tool_name" field, set on tool-use events.
func (p Payload) ToolName() fn.Option[string] {
	return p.stringField("tool_name")
}

// CWD returns the "cwd" field.
func (p Payload) CWD() fn.Option[string] {
	return p.stringField("cwd")
}

func (p Payload) stringField(key string) fn.Option[string] {
	if v, ok := p[key].(string); ok {
		return fn.Some(v)
	}

	return fn.None[string]()
}

// Read decodes a single JSON object from r. The whole input is consumed so
// the host never sees a closed pipe, however large a tool response is. Empty
// input, malformed JSON and non-object values all produce an error result.
func Read(r io.Reader) fn.Result[Payload] {
	data, err := io.ReadAll(r)
	if err != nil {
		return fn.Err[Payload](fmt.Errorf("read payload: %w", err))
	}

	return Decode(data)
}

// Decode is Read for an in-memory payload.
func Decode(data []byte) fn.Result[Payload] {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fn.Err[Payload](ErrEmptyPayload)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fn.Err[Payload](fmt.Errorf("decode payload: %w", err))
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return fn.Err[Payload](fmt.Errorf("%w: got %T", ErrNotObject,
			raw))
	}

	return fn.Ok(Payload(obj))
}

// ReadStdin reads the payload from os.Stdin. When stdin is an interactive
// terminal there is no host on the other end, so nothing is read and the
// payload is treated as empty instead of blocking on the keyboard.
func ReadStdin() fn.Result[Payload] {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return fn.Err[Payload](ErrEmptyPayload)
	}

	return Read(os.Stdin)
}
