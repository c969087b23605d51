package memory

import (
	"context"
	"sync"

	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type operationKey struct {
	key           string
	operationType string
}

type IdempotentOperationRepo struct {
	mu      sync.RWMutex
	records map[operationKey]*entity.OperationRecord
}

func NewIdempotentOperationRepo() *IdempotentOperationRepo {
	return &IdempotentOperationRepo{
		records: make(map[operationKey]*entity.OperationRecord),
	}
}

func (r *IdempotentOperationRepo) Find(ctx context.Context, key, operationType string) (*entity.OperationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[operationKey{key: key, operationType: operationType}]
	if !exists {
		return nil, repo_errors.ErrNotFound
	}

	return cloneOperationRecord(record), nil
}

// Save stores the record once per (key, operation type) pair. A second
// save for the same pair is a no-op so the first stored result wins.
func (r *IdempotentOperationRepo) Save(ctx context.Context, record *entity.OperationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	composite := operationKey{key: record.IdempotencyKey, operationType: record.OperationType}
	if _, exists := r.records[composite]; exists {
		return nil
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	r.records[composite] = cloneOperationRecord(record)

	return nil
}

func cloneOperationRecord(record *entity.OperationRecord) *entity.OperationRecord {
	clone := *record
	clone.Result = cloneSnapshot(record.Result)

	return &clone
}
