package speech

import "fmt"

// Outcome classifies how a speech attempt ended.
type Outcome uint8

const (
	// OutcomeSpoken means the helper ran to completion.
	OutcomeSpoken Outcome = iota

	// OutcomeDisabled means speech is not configured on this machine
	// (no helper binary, no API key) and nothing was attempted.
	OutcomeDisabled

	// OutcomeFailed means an attempt was made and did not succeed.
	OutcomeFailed
)

// String returns the outcome name used in logs and the journal.
func (o Outcome) String() string {
	switch o {
	case OutcomeSpoken:
		return "spoken"
	case OutcomeDisabled:
		return "disabled"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Result is the outcome of one speech attempt. None of the outcomes is an
// error from the host's point of view; callers log the result and move on.
type Result struct {
	Outcome Outcome

	// Reason explains a Disabled or Failed outcome.
	Reason string
}

// Spoken returns a successful result.
func Spoken() Result {
	return Result{Outcome: OutcomeSpoken}
}

// Disabled returns a result for a speech path that is switched off.
func Disabled(reason string) Result {
	return Result{Outcome: OutcomeDisabled, Reason: reason}
}

// Failed returns a result for an attempt that went wrong.
func Failed(reason string) Result {
	return Result{Outcome: OutcomeFailed, Reason: reason}
}

// Ok reports whether the message was spoken.
func (r Result) Ok() bool {
	return r.Outcome == OutcomeSpoken
}

// String implements fmt.Stringer.
func (r Result) String() string {
	if r.Reason == "" {
		return r.Outcome.String()
	}

	return fmt.Sprintf("%v: %s", r.Outcome, r.Reason)
}
