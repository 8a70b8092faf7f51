package speech

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fixedRand returns canned values so message choice is deterministic.
type fixedRand struct {
	float float64
	index int
}

func (f *fixedRand) Float64() float64 { return f.float }

func (f *fixedRand) IntN(n int) int { return f.index % n }

// TestNotificationMessageWithoutName verifies the generic sentence is used
// when no name is configured, whatever the dice say.
func TestNotificationMessageWithoutName(t *testing.T) {
	t.Parallel()

	rng := &fixedRand{float: 0.0}
	require.Equal(t, "Your agent needs your input",
		NotificationMessage(fn.None[string](), rng))

	require.Equal(t, "Your agent needs your input",
		NotificationMessage(fn.Some("   "), rng))
}

// TestNotificationMessagePersonalized verifies the 30% cut-off.
func TestNotificationMessagePersonalized(t *testing.T) {
	t.Parallel()

	name := fn.Some("Ada")

	require.Equal(t, "Ada, your agent needs your input",
		NotificationMessage(name, &fixedRand{float: 0.29}))

	require.Equal(t, "Your agent needs your input",
		NotificationMessage(name, &fixedRand{float: 0.3}))

	require.Equal(t, "Your agent needs your input",
		NotificationMessage(name, &fixedRand{float: 0.99}))
}

// TestNotificationMessageProperty checks that every generated sentence is
// one of the two allowed shapes.
func TestNotificationMessageProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z ]{0,12}`).Draw(t, "name")
		seed := rapid.Uint64().Draw(t, "seed")
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b9))

		msg := NotificationMessage(fn.Some(name), rng)

		trimmed := strings.TrimSpace(name)
		switch msg {
		case "Your agent needs your input":
		case trimmed + ", your agent needs your input":
			if trimmed == "" {
				t.Fatalf("personalized with blank name: %q", msg)
			}
		default:
			t.Fatalf("unexpected message %q", msg)
		}
	})
}

// TestCompletionMessages verifies the fixed list and that every index maps
// to a member of it.
func TestCompletionMessages(t *testing.T) {
	t.Parallel()

	msgs := CompletionMessages()
	require.Equal(t, []string{
		"Work complete!",
		"All done!",
		"Task finished!",
		"Job complete!",
		"Ready for next task!",
	}, msgs)

	// Mutating the copy must not leak into the package list.
	msgs[0] = "changed"
	require.Equal(t, "Work complete!", CompletionMessages()[0])

	for i := range len(completionMessages) {
		require.Equal(t, completionMessages[i],
			CompletionMessage(&fixedRand{index: i}))
	}
}

// TestCompletionMessageCoverage draws many times from a real source and
// expects to see every phrase.
func TestCompletionMessageCoverage(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	seen := make(map[string]int)
	for range 1000 {
		msg := CompletionMessage(rng)
		require.True(t, slices.Contains(completionMessages, msg))
		seen[msg]++
	}

	require.Len(t, seen, len(completionMessages))
}

// TestResultString verifies the log rendering of results.
func TestResultString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "spoken", Spoken().String())
	require.True(t, Spoken().Ok())

	disabled := Disabled("no key")
	require.False(t, disabled.Ok())
	require.Equal(t, "disabled: no key", disabled.String())

	require.Equal(t, "failed: boom", Failed("boom").String())
	require.Equal(t, "outcome(9)", Outcome(9).String())
}

// TestPlainText verifies markdown is flattened to speakable text.
func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "All done!", want: "All done!"},
		{in: "**Task** _finished_", want: "Task finished"},
		{in: "Run `go test` now", want: "Run go test now"},
		{in: "# Heading\n\nBody text", want: "Heading Body text"},
		{in: "See [the docs](https://example.com)", want: "See the docs"},
		{in: "- one\n- two", want: "one two"},
		{in: "line one\nline two", want: "line one line two"},
		{in: "  spaced \t out  ", want: "spaced out"},
		{in: "use <tab> now", want: "use <tab> now"},
		{in: "press <Enter> to go", want: "press <Enter> to go"},
		{in: "<div>\nraw block\n</div>", want: "<div> raw block </div>"},
		{in: "", want: ""},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, PlainText(tc.in), "input %q", tc.in)
	}
}
