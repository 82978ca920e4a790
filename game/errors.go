package game

import "fmt"

// IllegalActionError reports an action the rules reject. The hand state is
// left untouched; the caller may pick another action and resubmit.
type IllegalActionError struct {
	Actor  ParticipantID
	Action Action
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %s by %s: %s", e.Action, e.Actor, e.Reason)
}

// MalformedConfigurationError reports a config the table cannot start with.
type MalformedConfigurationError struct {
	Field  string
	Reason string
}

func (e *MalformedConfigurationError) Error() string {
	return fmt.Sprintf("malformed configuration %q: %s", e.Field, e.Reason)
}

// InvariantViolationError reports internal corruption (card conservation,
// money conservation, hand sizes). The hand must be aborted, not continued.
type InvariantViolationError struct {
	Check  string
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant %q violated: %s", e.Check, e.Detail)
}

// ManualOverrideEvent records an out-of-band pot adjustment, used when
// replaying hands from a live table where the house corrected the pot.
type ManualOverrideEvent struct {
	DeltaCents int64  `json:"delta_cents"`
	Reason     string `json:"reason"`
}
