package hooks

import (
	"github.com/roasbeef/hookvoice/internal/event"
)

// WaitingForInputMessage is the notification the host sends when it is idle
// at the prompt. It repeats often enough that speaking it is just noise.
const WaitingForInputMessage = "Claude is waiting for your input"

// ShouldNotify reports whether the notification hook should speak. It needs
// the notify flag and a message other than the idle prompt; the comparison
// is exact.
func ShouldNotify(notify bool, p event.Payload) bool {
	if !notify {
		return false
	}

	// A missing or non-string message never matches.
	return p.Message().UnwrapOr("") != WaitingForInputMessage
}
