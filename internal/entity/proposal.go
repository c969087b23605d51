package entity

import (
	"time"

	"proposal-management-api/internal/state"

	"github.com/google/uuid"
)

// db model
type Proposal struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	Customer       CustomerSnapshot
	Value          Money
	State          state.State
	Version        int
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	SentAt         *time.Time
	RespondedAt    *time.Time
}

// NewProposal builds a draft proposal at version 1. The ID stays Nil
// until the repository assigns one on first save. The idempotency key,
// when present, is set here and never changes.
func NewProposal(customerID uuid.UUID, customer CustomerSnapshot, value Money, idempotencyKey string, now time.Time) *Proposal {
	return &Proposal{
		CustomerID:     customerID,
		Customer:       customer,
		Value:          value,
		State:          state.Draft,
		Version:        1,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      now,
	}
}

// Transition moves the proposal to target after the validator approves
// it. State change and version bump are one mutation: on failure
// nothing changes.
func (p *Proposal) Transition(target state.State, validator *state.Validator, now time.Time) error {
	if err := validator.ValidateTransition(p.State, target); err != nil {
		return err
	}

	p.State = target
	p.bumpVersion(now)

	return nil
}

// UpdateValue replaces the monetary value. Only draft proposals may be
// edited.
func (p *Proposal) UpdateValue(value Money, validator *state.Validator, now time.Time) error {
	if err := validator.ValidateEditPermission(p.State); err != nil {
		return err
	}

	p.Value = value
	p.bumpVersion(now)

	return nil
}

// CheckVersion is the optimistic-lock gate: it reports whether expected
// matches the current version, with no side effect.
func (p *Proposal) CheckVersion(expected int) bool {
	return p.Version == expected
}

// MarkSent records when the proposal first reached the sent state. The
// timestamp is set only once so retried applications stay idempotent.
func (p *Proposal) MarkSent(now time.Time) {
	if p.SentAt == nil {
		p.SentAt = &now
	}
}

// MarkResponded records when the proposal was first accepted or
// rejected. Set only once.
func (p *Proposal) MarkResponded(now time.Time) {
	if p.RespondedAt == nil {
		p.RespondedAt = &now
	}
}

func (p *Proposal) IsFinal() bool {
	return p.State.IsFinal()
}

func (p *Proposal) IsEditable() bool {
	return p.State.PermitsEdit()
}

func (p *Proposal) bumpVersion(now time.Time) {
	p.Version++
	p.UpdatedAt = &now
}
