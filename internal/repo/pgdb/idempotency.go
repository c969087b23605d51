package pgdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo/repo_errors"
	"proposal-management-api/pkg/postgres"

	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

type IdempotentOperationRepo struct {
	*postgres.Postgres
}

func NewIdempotentOperationRepo(pgdb *postgres.Postgres) *IdempotentOperationRepo {
	return &IdempotentOperationRepo{pgdb}
}

func (r *IdempotentOperationRepo) Find(ctx context.Context, key, operationType string) (*entity.OperationRecord, error) {
	findSql, args, _ := r.SqlBuilder.
		Select("id, idempotency_key, operation_type, entity_id, result, created_at").
		From("idempotent_operations").
		Where("idempotency_key = ? AND operation_type = ?", key, operationType).
		ToSql()

	var (
		record entity.OperationRecord
		result []byte
	)

	err := r.Database.QueryRowContext(ctx, findSql, args...).Scan(&record.ID,
		&record.IdempotencyKey, &record.OperationType, &record.EntityID,
		&result, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	if len(result) > 0 {
		if err := json.Unmarshal(result, &record.Result); err != nil {
			return nil, err
		}
	}

	return &record, nil
}

// Save inserts the record at most once per (key, operation type) pair.
// The unique constraint turns a concurrent duplicate insert into a
// no-op: the first stored result wins, which is what the idempotency
// contract requires.
func (r *IdempotentOperationRepo) Save(ctx context.Context, record *entity.OperationRecord) error {
	result, err := json.Marshal(record.Result)
	if err != nil {
		return err
	}

	insertSql, args, _ := r.SqlBuilder.
		Insert("idempotent_operations").
		Columns("idempotency_key", "operation_type", "entity_id", "result", "created_at").
		Values(record.IdempotencyKey, record.OperationType, record.EntityID, result, record.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	err = r.Database.QueryRowContext(ctx, insertSql, args...).Scan(&record.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return nil
		}

		return err
	}

	return nil
}
