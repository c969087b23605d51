package service

import (
	"context"
	"time"

	"proposal-management-api/internal/audit"
	"proposal-management-api/internal/repo"

	"github.com/google/uuid"
)

// AuditService builds typed audit records and appends them to the
// append-only trail. One record per mutating operation.
type AuditService struct {
	auditRepo repo.Audit
	clock     func() time.Time
}

func NewAuditService(repos *repo.Repositories) *AuditService {
	return &AuditService{
		auditRepo: repos.Audit,
		clock:     time.Now,
	}
}

func (s *AuditService) RecordCreation(ctx context.Context, entityType string, entityID uuid.UUID, snapshot map[string]any, actor, origin string) error {
	record := audit.NewCreated(entityType, entityID, snapshot, actor, origin, s.clock())

	return s.auditRepo.Append(ctx, record)
}

// RecordUpdate computes the structural diff between the snapshots and
// appends an UPDATED_FIELDS record. An empty diff is still recorded;
// suppressing no-op updates would leave holes in the call history.
func (s *AuditService) RecordUpdate(ctx context.Context, entityType string, entityID uuid.UUID, before, after map[string]any, actor, origin string) error {
	diff := audit.ComputeDiff(before, after)
	record := audit.NewUpdatedFields(entityType, entityID, diff, actor, origin, s.clock())

	return s.auditRepo.Append(ctx, record)
}

func (s *AuditService) RecordStatusChange(ctx context.Context, entityType string, entityID uuid.UUID, priorState, newState string, before, after map[string]any, actor, origin string) error {
	record := audit.NewStatusChanged(entityType, entityID, priorState, newState, before, after, actor, origin, s.clock())

	return s.auditRepo.Append(ctx, record)
}

func (s *AuditService) RecordLogicalDeletion(ctx context.Context, entityType string, entityID uuid.UUID, snapshot map[string]any, actor, origin string) error {
	record := audit.NewDeletedLogical(entityType, entityID, snapshot, actor, origin, s.clock())

	return s.auditRepo.Append(ctx, record)
}

func (s *AuditService) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]audit.Record, error) {
	return s.auditRepo.ListByEntity(ctx, entityType, entityID)
}
