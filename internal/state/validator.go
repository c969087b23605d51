package state

import (
	"errors"
	"fmt"
)

var (
	ErrTerminalStateImmutable = errors.New("terminal state permits no changes")
	ErrSameStateTransition    = errors.New("transition to the same state")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrNotEditable            = errors.New("proposal is not editable in its current state")
)

// Validator checks lifecycle rules for proposal states. It is pure:
// validation never mutates anything.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateTransition checks that the move from current to target is
// allowed by the
// state machine. Rules are applied in order: terminal immutability,
// same-state rejection, then the transition table.
func (v *Validator) ValidateTransition(current, target State) error {
	if current.IsFinal() {
		return fmt.Errorf("%w: cannot leave %q", ErrTerminalStateImmutable, current)
	}

	if current == target {
		return fmt.Errorf("%w: already %q", ErrSameStateTransition, current)
	}

	if !current.CanTransitionTo(target) {
		return fmt.Errorf("%w: %q to %q, valid targets: %v",
			ErrInvalidTransition, current, target, current.ValidTargets())
	}

	return nil
}

// ValidateEditPermission checks that field edits are allowed. Only
// draft proposals may be edited.
func (v *Validator) ValidateEditPermission(current State) error {
	if !current.PermitsEdit() {
		return fmt.Errorf("%w: state is %q, only %q permits edits",
			ErrNotEditable, current, Draft)
	}

	return nil
}

// ValidateCancellationPermission checks that cancellation is allowed.
// Today this matches the terminal-state rule, but it is kept as its own
// check so cancellation-specific restrictions (time windows, roles) can
// be added without touching the transition table.
func (v *Validator) ValidateCancellationPermission(current State) error {
	if current.IsFinal() {
		return fmt.Errorf("%w: cannot cancel from %q", ErrTerminalStateImmutable, current)
	}

	return nil
}
