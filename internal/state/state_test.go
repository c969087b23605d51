package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, s := range All() {
		parsed, err := Parse(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := Parse("archived")
	assert.ErrorContains(t, err, "unknown proposal state")

	_, err = Parse("")
	assert.Error(t, err)
}

func TestTransitionTable(t *testing.T) {
	allowed := map[[2]State]bool{
		{Draft, Sent}:      true,
		{Draft, Cancelled}: true,
		{Sent, Accepted}:   true,
		{Sent, Rejected}:   true,
		{Sent, Cancelled}:  true,
	}

	for _, from := range All() {
		for _, to := range All() {
			got := from.CanTransitionTo(to)
			want := allowed[[2]State{from, to}]
			assert.Equal(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestValidatorTransition(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		from State
		to   State
		err  error
	}{
		{"draft to sent", Draft, Sent, nil},
		{"draft to cancelled", Draft, Cancelled, nil},
		{"sent to accepted", Sent, Accepted, nil},
		{"sent to rejected", Sent, Rejected, nil},
		{"sent to cancelled", Sent, Cancelled, nil},
		{"draft to accepted skips sent", Draft, Accepted, ErrInvalidTransition},
		{"draft to rejected skips sent", Draft, Rejected, ErrInvalidTransition},
		{"sent back to draft", Sent, Draft, ErrInvalidTransition},
		{"same state draft", Draft, Draft, ErrSameStateTransition},
		{"same state sent", Sent, Sent, ErrSameStateTransition},
		{"accepted is terminal", Accepted, Cancelled, ErrTerminalStateImmutable},
		{"rejected is terminal", Rejected, Sent, ErrTerminalStateImmutable},
		{"cancelled is terminal", Cancelled, Draft, ErrTerminalStateImmutable},
		{"terminal same state still immutable", Accepted, Accepted, ErrTerminalStateImmutable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateTransition(tt.from, tt.to)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.err), "got %v, want %v", err, tt.err)
			}
		})
	}
}

func TestValidatorEditPermission(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateEditPermission(Draft))

	for _, s := range []State{Sent, Accepted, Rejected, Cancelled} {
		assert.ErrorIs(t, v.ValidateEditPermission(s), ErrNotEditable, "state %s", s)
	}
}

func TestIsFinal(t *testing.T) {
	assert.False(t, Draft.IsFinal())
	assert.False(t, Sent.IsFinal())
	assert.True(t, Accepted.IsFinal())
	assert.True(t, Rejected.IsFinal())
	assert.True(t, Cancelled.IsFinal())
}

func TestValidTargets(t *testing.T) {
	assert.ElementsMatch(t, []State{Sent, Cancelled}, Draft.ValidTargets())
	assert.ElementsMatch(t, []State{Accepted, Rejected, Cancelled}, Sent.ValidTargets())
	assert.Empty(t, Accepted.ValidTargets())
	assert.Empty(t, Rejected.ValidTargets())
	assert.Empty(t, Cancelled.ValidTargets())
}
