package memory

import (
	"context"
	"sort"
	"sync"

	"proposal-management-api/internal/audit"

	"github.com/google/uuid"
)

// AuditRepo is append-only: records are stored as private copies and
// nothing can update or remove them afterwards.
type AuditRepo struct {
	mu      sync.RWMutex
	records []*audit.Record
}

func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

func (r *AuditRepo) Append(ctx context.Context, record *audit.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	r.records = append(r.records, cloneRecord(record))

	return nil
}

// ListByEntity returns the trail for one entity, newest first.
func (r *AuditRepo) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]audit.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []audit.Record
	for _, record := range r.records {
		if record.EntityType == entityType && record.EntityID == entityID {
			out = append(out, *cloneRecord(record))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	return out, nil
}

func cloneRecord(record *audit.Record) *audit.Record {
	clone := *record
	clone.Before = cloneSnapshot(record.Before)
	clone.After = cloneSnapshot(record.After)

	return &clone
}

func cloneSnapshot(snapshot map[string]any) map[string]any {
	if snapshot == nil {
		return nil
	}

	out := make(map[string]any, len(snapshot))
	for key, value := range snapshot {
		out[key] = value
	}

	return out
}
