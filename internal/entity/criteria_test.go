package entity

import (
	"testing"

	"proposal-management-api/internal/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewProposalCriteriaDefaults(t *testing.T) {
	c := NewProposalCriteria(nil, nil, "", "", 0, 0)

	assert.Equal(t, SortByCreatedAt, c.SortBy)
	assert.Equal(t, SortDesc, c.Direction)
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, DefaultPerPage, c.PerPage)
	assert.False(t, c.HasFilters())
}

func TestNewProposalCriteriaNormalization(t *testing.T) {
	c := NewProposalCriteria(nil, nil, "unknown_field", "sideways", -5, 1000)

	assert.Equal(t, SortByCreatedAt, c.SortBy)
	assert.Equal(t, SortDesc, c.Direction)
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, MaxPerPage, c.PerPage)
}

func TestNewProposalCriteriaKeepsWhitelistedSort(t *testing.T) {
	for _, field := range []string{SortByID, SortByValue, SortByState, SortByCreatedAt, SortByUpdatedAt} {
		c := NewProposalCriteria(nil, nil, field, SortAsc, 1, 10)
		assert.Equal(t, field, c.SortBy)
		assert.Equal(t, SortAsc, c.Direction)
	}
}

func TestProposalCriteriaOffset(t *testing.T) {
	c := NewProposalCriteria(nil, nil, "", "", 3, 20)
	assert.Equal(t, 40, c.Offset())

	c = NewProposalCriteria(nil, nil, "", "", 1, 20)
	assert.Equal(t, 0, c.Offset())
}

func TestProposalCriteriaHasFilters(t *testing.T) {
	id := uuid.New()
	st := state.Draft

	assert.True(t, NewProposalCriteria(&id, nil, "", "", 1, 10).HasFilters())
	assert.True(t, NewProposalCriteria(nil, &st, "", "", 1, 10).HasFilters())
	assert.True(t, NewProposalCriteria(&id, &st, "", "", 1, 10).HasFilters())
}
