package entity

import "github.com/google/uuid"

// service input models

type CreateProposalInput struct {
	CustomerID     uuid.UUID
	Value          float64
	IdempotencyKey string // optional, enables idempotent creation
	Actor          string // optional, recorded on the audit trail
	Origin         string // optional request origin address
}

// ProposalActionInput drives the state-changing operations (submit,
// approve, reject, cancel). ExpectedVersion is the optimistic-lock
// check; IdempotencyKey optionally makes the action replay-safe.
type ProposalActionInput struct {
	ProposalID      uuid.UUID
	ExpectedVersion int
	IdempotencyKey  string
	Actor           string
	Origin          string
}

type UpdateProposalInput struct {
	ProposalID      uuid.UUID
	ExpectedVersion int
	Value           *float64 // nil leaves the value untouched
	Actor           string
	Origin          string
}

type CreateCustomerInput struct {
	Name           string
	Email          string
	Document       string
	IdempotencyKey string
	Actor          string
	Origin         string
}
