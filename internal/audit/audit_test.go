package audit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewCreated(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	snapshot := map[string]any{"value": 100.0, "state": "draft"}

	record := NewCreated("Proposal", id, snapshot, "ana", "10.0.0.1", now)

	assert.Equal(t, EventCreated, record.Event)
	assert.Equal(t, "Proposal", record.EntityType)
	assert.Equal(t, id, record.EntityID)
	assert.Empty(t, record.Before)
	assert.Equal(t, snapshot, record.After)
	assert.Equal(t, "ana", record.Actor)
	assert.Equal(t, "10.0.0.1", record.Origin)
	assert.Equal(t, now, record.OccurredAt)
}

func TestNewCreatedCopiesSnapshot(t *testing.T) {
	snapshot := map[string]any{"value": 100.0}
	record := NewCreated("Proposal", uuid.New(), snapshot, "ana", "", time.Now())

	snapshot["value"] = 999.0
	assert.Equal(t, 100.0, record.After["value"])
}

func TestNewUpdatedFieldsCarriesDiffProjections(t *testing.T) {
	diff := ComputeDiff(
		map[string]any{"value": 100.0},
		map[string]any{"value": 150.0},
	)

	record := NewUpdatedFields("Proposal", uuid.New(), diff, "ana", "", time.Now())

	assert.Equal(t, EventUpdatedFields, record.Event)
	assert.Equal(t, map[string]any{"value": 100.0}, record.Before)
	assert.Equal(t, map[string]any{"value": 150.0}, record.After)
}

func TestNewUpdatedFieldsEmptyDiff(t *testing.T) {
	record := NewUpdatedFields("Proposal", uuid.New(), nil, "ana", "", time.Now())

	assert.Equal(t, EventUpdatedFields, record.Event)
	assert.Empty(t, record.Before)
	assert.Empty(t, record.After)
}

func TestNewStatusChangedMergesStatesIntoPayloads(t *testing.T) {
	record := NewStatusChanged("Proposal", uuid.New(), "draft", "sent",
		map[string]any{"value": 100.0}, map[string]any{"value": 100.0}, "ana", "", time.Now())

	assert.Equal(t, EventStatusChanged, record.Event)
	assert.Equal(t, "draft", record.PriorState)
	assert.Equal(t, "sent", record.NewState)

	assert.Equal(t, "draft", record.Before["state"])
	assert.Equal(t, "draft", record.Before["prior_state"])

	assert.Equal(t, "sent", record.After["state"])
	assert.Equal(t, "sent", record.After["new_state"])
	assert.Equal(t, "draft", record.After["prior_state"])
	assert.Equal(t, 100.0, record.After["value"])
}

func TestNewDeletedLogical(t *testing.T) {
	snapshot := map[string]any{"name": "Ana"}
	record := NewDeletedLogical("Customer", uuid.New(), snapshot, "ana", "", time.Now())

	assert.Equal(t, EventDeletedLogical, record.Event)
	assert.Equal(t, snapshot, record.Before)
	assert.Empty(t, record.After)
}
