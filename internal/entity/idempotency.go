package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxIdempotencyKeyLength = 255

// IdempotencyKey is a client-supplied token that makes a repeated
// request return the original result instead of producing a duplicate
// effect.
type IdempotencyKey struct {
	value string
}

func NewIdempotencyKey(raw string) (IdempotencyKey, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return IdempotencyKey{}, fmt.Errorf("%w: idempotency key cannot be empty", ErrValidation)
	}

	if len(trimmed) > maxIdempotencyKeyLength {
		return IdempotencyKey{}, fmt.Errorf("%w: idempotency key exceeds %d characters",
			ErrValidation, maxIdempotencyKeyLength)
	}

	return IdempotencyKey{value: trimmed}, nil
}

func (k IdempotencyKey) String() string {
	return k.value
}

func (k IdempotencyKey) Equals(other IdempotencyKey) bool {
	return k.value == other.value
}

// OperationRecord stores the outcome of an idempotent state-changing
// operation, keyed on (key, operation type). The pair is unique: a
// record is created at most once and later writes for the same pair are
// no-ops.
type OperationRecord struct {
	ID             uuid.UUID
	IdempotencyKey string
	OperationType  string
	EntityID       uuid.UUID
	Result         map[string]any
	CreatedAt      time.Time
}

func NewOperationRecord(key IdempotencyKey, operationType string, entityID uuid.UUID, result map[string]any, now time.Time) (*OperationRecord, error) {
	if strings.TrimSpace(operationType) == "" {
		return nil, fmt.Errorf("%w: operation type cannot be empty", ErrValidation)
	}

	return &OperationRecord{
		IdempotencyKey: key.String(),
		OperationType:  strings.TrimSpace(operationType),
		EntityID:       entityID,
		Result:         result,
		CreatedAt:      now,
	}, nil
}
