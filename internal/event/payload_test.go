package event

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestReadValidPayload verifies a Notification payload decodes and its
// fields are reachable through the accessors.
func TestReadValidPayload(t *testing.T) {
	t.Parallel()

	input := `{
		"session_id": "abc123",
		"transcript_path": "/tmp/t.jsonl",
		"cwd": "/work",
		"hook_event_name": "Notification",
		"message": "Claude needs your permission to use Bash"
	}`

	payload, err := Read(strings.NewReader(input)).Unpack()
	require.NoError(t, err)

	require.Equal(t, "Claude needs your permission to use Bash",
		payload.Message().UnwrapOr(""))
	require.Equal(t, "abc123", payload.SessionID().UnwrapOr(""))
	require.Equal(t, "Notification", payload.HookEventName().UnwrapOr(""))
	require.Equal(t, "/work", payload.CWD().UnwrapOr(""))
	require.True(t, payload.ToolName().IsNone())
}

// TestReadMissingAndNonStringMessage verifies that absent or mistyped
// fields surface as None rather than errors.
func TestReadMissingAndNonStringMessage(t *testing.T) {
	t.Parallel()

	payload, err := Read(strings.NewReader(`{}`)).Unpack()
	require.NoError(t, err)
	require.True(t, payload.Message().IsNone())

	payload, err = Read(strings.NewReader(`{"message": 42}`)).Unpack()
	require.NoError(t, err)
	require.True(t, payload.Message().IsNone())
}

// TestReadRejectsMalformed covers the inputs a hook must shrug off.
func TestReadRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "whitespace", input: "  \n\t "},
		{name: "truncated", input: `{"message": "hi"`},
		{name: "garbage", input: "not json at all"},
		{name: "array", input: `["message"]`},
		{name: "string", input: `"Claude is waiting for your input"`},
		{name: "null", input: "null"},
		{name: "trailing data", input: `{"a":1} {"b":2}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := Read(strings.NewReader(tc.input))
			require.True(t, result.IsErr())
		})
	}
}

// TestReadEmptyIsSentinel verifies callers can tell empty input apart.
func TestReadEmptyIsSentinel(t *testing.T) {
	t.Parallel()

	_, err := Read(strings.NewReader("")).Unpack()
	require.ErrorIs(t, err, ErrEmptyPayload)

	_, err = Read(strings.NewReader("[]")).Unpack()
	require.ErrorIs(t, err, ErrNotObject)
}

// TestReadLargePayload verifies a multi-megabyte tool response is read in
// full and its fields stay available.
func TestReadLargePayload(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("a", 3<<20)
	big := `{"session_id": "s1", "tool_name": "Read", ` +
		`"tool_response": {"content": "` + body + `"}, ` +
		`"message": "done"}`

	r := strings.NewReader(big)
	payload, err := Read(r).Unpack()
	require.NoError(t, err)
	require.Zero(t, r.Len())

	require.Equal(t, "Read", payload.ToolName().UnwrapOr(""))
	require.Equal(t, "s1", payload.SessionID().UnwrapOr(""))
	require.Equal(t, "done", payload.Message().UnwrapOr(""))
}

// TestDecodeArbitraryBytesNeverPanics feeds random bytes to the decoder.
func TestDecodeArbitraryBytesNeverPanics(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")

		result := Decode(data)
		if result.IsOk() {
			payload, _ := result.Unpack()
			if payload == nil {
				t.Fatalf("ok result with nil payload")
			}
		}
	})
}

// TestDecodeMessageRoundTrip verifies any string message is recovered.
func TestDecodeMessageRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		msg := rapid.String().Draw(t, "msg")

		data, err := jsonObject("message", msg)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		payload, err := Decode(data).Unpack()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := payload.Message().UnwrapOr("<none>"); got != msg {
			t.Fatalf("message mismatch: got %q want %q", got, msg)
		}
	})
}

func jsonObject(key, value string) ([]byte, error) {
	return json.Marshal(map[string]string{key: value})
}
