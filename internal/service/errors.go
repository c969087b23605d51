package service

import (
	"errors"
	"fmt"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrCustomerNotFound = errors.New("customer not found")

	ErrCustomerEmailTaken    = errors.New("customer with given email already exists")
	ErrCustomerDocumentTaken = errors.New("customer with given document already exists")

	// ErrVersionConflict is the optimistic-lock failure. Matched with
	// errors.Is; the concrete *VersionConflictError carries the actual
	// and expected versions.
	ErrVersionConflict = errors.New("proposal version conflict")
)

// VersionConflictError reports an optimistic-lock failure with both
// versions, so the caller can re-fetch and retry at its own level. The
// core never retries.
type VersionConflictError struct {
	Actual   int
	Expected int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("proposal version conflict: expected %d, actual %d", e.Expected, e.Actual)
}

func (e *VersionConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}
