package entity

import (
	"strings"

	"proposal-management-api/internal/state"

	"github.com/google/uuid"
)

// Sort fields accepted by the proposal listing. Anything outside this
// whitelist falls back to created_at.
const (
	SortByID        = "id"
	SortByValue     = "value"
	SortByState     = "state"
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
)

const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 100
)

// ProposalCriteria holds filter, sort and pagination parameters for a
// proposal listing. Build it with NewProposalCriteria so the fields are
// always normalized.
type ProposalCriteria struct {
	CustomerID *uuid.UUID
	State      *state.State
	SortBy     string
	Direction  string
	Page       int
	PerPage    int
}

// NewProposalCriteria normalizes raw listing parameters: unknown sort
// fields fall back to created_at, direction defaults to DESC, page is
// at least 1 and per-page is clamped to [1, 100]. A non-positive
// perPage selects the default page size.
func NewProposalCriteria(customerID *uuid.UUID, st *state.State, sortBy, direction string, page, perPage int) *ProposalCriteria {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}

	return &ProposalCriteria{
		CustomerID: customerID,
		State:      st,
		SortBy:     normalizeSortField(sortBy),
		Direction:  normalizeDirection(direction),
		Page:       page,
		PerPage:    perPage,
	}
}

func (c *ProposalCriteria) Offset() int {
	return (c.Page - 1) * c.PerPage
}

func (c *ProposalCriteria) HasFilters() bool {
	return c.CustomerID != nil || c.State != nil
}

func normalizeSortField(field string) string {
	switch field {
	case SortByID, SortByValue, SortByState, SortByCreatedAt, SortByUpdatedAt:
		return field
	}

	return SortByCreatedAt
}

func normalizeDirection(direction string) string {
	if strings.EqualFold(direction, SortAsc) {
		return SortAsc
	}

	return SortDesc
}
