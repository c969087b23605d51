// Package audit builds the typed, append-only records that trail every
// entity mutation. Records are immutable after construction: the
// repository contract forbids updating or deleting them.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event types a record can carry.
type Event string

const (
	EventCreated        Event = "CREATED"
	EventUpdatedFields  Event = "UPDATED_FIELDS"
	EventStatusChanged  Event = "STATUS_CHANGED"
	EventDeletedLogical Event = "DELETED_LOGICAL"
)

// Record is one immutable audit entry. Before and After hold snapshot
// payloads whose shape depends on the event: full snapshots for CREATED
// / STATUS_CHANGED / DELETED_LOGICAL, diff projections for
// UPDATED_FIELDS. PriorState and NewState are only set for
// STATUS_CHANGED; they are denormalized for query convenience and also
// merged into the payloads.
type Record struct {
	ID         uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Event      Event
	PriorState string
	NewState   string
	Before     map[string]any
	After      map[string]any
	Actor      string
	Origin     string
	OccurredAt time.Time
}

// NewCreated records an entity creation. Only the new snapshot is
// carried; the prior snapshot is empty.
func NewCreated(entityType string, entityID uuid.UUID, snapshot map[string]any, actor, origin string, now time.Time) *Record {
	return &Record{
		EntityType: entityType,
		EntityID:   entityID,
		Event:      EventCreated,
		Before:     map[string]any{},
		After:      copyMap(snapshot),
		Actor:      actor,
		Origin:     origin,
		OccurredAt: now,
	}
}

// NewUpdatedFields records a field update carrying the computed diff
// rather than full snapshots. An empty diff still produces a record:
// no-op updates are intentionally kept in the trail so the call history
// stays complete.
func NewUpdatedFields(entityType string, entityID uuid.UUID, diff Diff, actor, origin string, now time.Time) *Record {
	return &Record{
		EntityType: entityType,
		EntityID:   entityID,
		Event:      EventUpdatedFields,
		Before:     diff.BeforeMap(),
		After:      diff.AfterMap(),
		Actor:      actor,
		Origin:     origin,
		OccurredAt: now,
	}
}

// NewStatusChanged records a state transition with full before/after
// snapshots. The prior and new states are merged into the payloads on
// top of being carried as explicit fields.
func NewStatusChanged(entityType string, entityID uuid.UUID, priorState, newState string, before, after map[string]any, actor, origin string, now time.Time) *Record {
	beforePayload := copyMap(before)
	beforePayload["state"] = priorState
	beforePayload["prior_state"] = priorState

	afterPayload := copyMap(after)
	afterPayload["state"] = newState
	afterPayload["new_state"] = newState
	afterPayload["prior_state"] = priorState

	return &Record{
		EntityType: entityType,
		EntityID:   entityID,
		Event:      EventStatusChanged,
		PriorState: priorState,
		NewState:   newState,
		Before:     beforePayload,
		After:      afterPayload,
		Actor:      actor,
		Origin:     origin,
		OccurredAt: now,
	}
}

// NewDeletedLogical records a soft deletion. Only the pre-deletion
// snapshot is carried.
func NewDeletedLogical(entityType string, entityID uuid.UUID, snapshot map[string]any, actor, origin string, now time.Time) *Record {
	return &Record{
		EntityType: entityType,
		EntityID:   entityID,
		Event:      EventDeletedLogical,
		Before:     copyMap(snapshot),
		After:      map[string]any{},
		Actor:      actor,
		Origin:     origin,
		OccurredAt: now,
	}
}

func copyMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}

	return out
}
