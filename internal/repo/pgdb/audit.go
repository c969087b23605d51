package pgdb

import (
	"context"
	"database/sql"
	"encoding/json"

	"proposal-management-api/internal/audit"
	"proposal-management-api/pkg/postgres"

	"github.com/google/uuid"
)

// AuditRepo appends records to the proposal_audit table. The table
// carries a trigger that rejects UPDATE and DELETE, so append-only is a
// database-level contract, not an application convention.
type AuditRepo struct {
	*postgres.Postgres
}

func NewAuditRepo(pgdb *postgres.Postgres) *AuditRepo {
	return &AuditRepo{pgdb}
}

func (r *AuditRepo) Append(ctx context.Context, record *audit.Record) error {
	beforeData, err := json.Marshal(record.Before)
	if err != nil {
		return err
	}

	afterData, err := json.Marshal(record.After)
	if err != nil {
		return err
	}

	insertSql, args, _ := r.SqlBuilder.
		Insert("proposal_audit").
		Columns("entity_type", "entity_id", "event", "prior_state", "new_state",
			"before_data", "after_data", "actor", "origin", "occurred_at").
		Values(record.EntityType, record.EntityID, string(record.Event),
			nullString(record.PriorState), nullString(record.NewState),
			beforeData, afterData, nullString(record.Actor),
			nullString(record.Origin), record.OccurredAt).
		Suffix("RETURNING id").
		ToSql()

	return r.Database.QueryRowContext(ctx, insertSql, args...).Scan(&record.ID)
}

func (r *AuditRepo) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]audit.Record, error) {
	listSql, args, _ := r.SqlBuilder.
		Select("id, entity_type, entity_id, event, prior_state, new_state, "+
			"before_data, after_data, actor, origin, occurred_at").
		From("proposal_audit").
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		OrderBy("occurred_at DESC", "id DESC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []audit.Record
	for rows.Next() {
		var (
			record     audit.Record
			rawEvent   string
			priorState sql.NullString
			newState   sql.NullString
			beforeData []byte
			afterData  []byte
			actor      sql.NullString
			origin     sql.NullString
		)

		err := rows.Scan(&record.ID, &record.EntityType, &record.EntityID, &rawEvent,
			&priorState, &newState, &beforeData, &afterData, &actor, &origin,
			&record.OccurredAt)
		if err != nil {
			return nil, err
		}

		record.Event = audit.Event(rawEvent)
		record.PriorState = priorState.String
		record.NewState = newState.String
		record.Actor = actor.String
		record.Origin = origin.String

		if err := json.Unmarshal(beforeData, &record.Before); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(afterData, &record.After); err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
