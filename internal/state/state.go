package state

import "fmt"

// State is a proposal lifecycle state.
type State string

const (
	Draft     State = "draft"
	Sent      State = "sent"
	Accepted  State = "accepted"
	Rejected  State = "rejected"
	Cancelled State = "cancelled"
)

// transitions is the full state machine. States absent from the map are
// terminal: they have no outgoing transitions.
var transitions = map[State][]State{
	Draft: {Sent, Cancelled},
	Sent:  {Accepted, Rejected, Cancelled},
}

// All returns every defined state.
func All() []State {
	return []State{Draft, Sent, Accepted, Rejected, Cancelled}
}

// Parse converts a raw string into a State.
func Parse(raw string) (State, error) {
	s := State(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown proposal state %q", raw)
	}

	return s, nil
}

func (s State) Valid() bool {
	switch s {
	case Draft, Sent, Accepted, Rejected, Cancelled:
		return true
	}

	return false
}

// IsFinal reports whether the state is terminal. Terminal states permit
// no transitions, no edits and no cancellation.
func (s State) IsFinal() bool {
	switch s {
	case Accepted, Rejected, Cancelled:
		return true
	}

	return false
}

// PermitsEdit reports whether field edits are allowed. Only Draft
// proposals are editable; Sent proposals are frozen while awaiting a
// response.
func (s State) PermitsEdit() bool {
	return s == Draft
}

// ValidTargets returns the states reachable from s.
func (s State) ValidTargets() []State {
	targets := transitions[s]
	out := make([]State, len(targets))
	copy(out, targets)

	return out
}

// CanTransitionTo reports whether the machine allows moving from s to
// target.
func (s State) CanTransitionTo(target State) bool {
	if s.IsFinal() || s == target {
		return false
	}

	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}

	return false
}

func (s State) String() string {
	return string(s)
}
