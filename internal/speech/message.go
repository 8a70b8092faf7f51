package speech

import (
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// NamedNotificationChance is the probability that a notification
	// addresses the engineer by name, when a name is configured.
	NamedNotificationChance = 0.3

	// notificationText is spoken when the agent is blocked on the user.
	notificationText = "Your agent needs your input"
)

// completionMessages are the phrases the stop hook picks from.
var completionMessages = []string{
	"Work complete!",
	"All done!",
	"Task finished!",
	"Job complete!",
	"Ready for next task!",
}

// Rand is the slice of math/rand/v2's *rand.Rand used for message choice.
type Rand interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64

	// IntN returns a pseudo-random number in [0, n).
	IntN(n int) int
}

// NotificationMessage returns the sentence spoken when the agent needs
// input, occasionally prefixed with the engineer's name.
func NotificationMessage(name fn.Option[string], rng Rand) string {
	engineer := strings.TrimSpace(name.UnwrapOr(""))
	if engineer != "" && rng.Float64() < NamedNotificationChance {
		return engineer + ", your agent needs your input"
	}

	return notificationText
}

// CompletionMessages returns a copy of the completion phrases.
func CompletionMessages() []string {
	msgs := make([]string, len(completionMessages))
	copy(msgs, completionMessages)

	return msgs
}

// CompletionMessage picks one completion phrase uniformly at random.
func CompletionMessage(rng Rand) string {
	return completionMessages[rng.IntN(len(completionMessages))]
}
