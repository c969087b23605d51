package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo/repo_errors"
	"proposal-management-api/internal/state"
	"proposal-management-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const proposalColumns = "id, customer_id, customer_name, customer_email, customer_document, " +
	"value, state, version, idempotency_key, created_at, updated_at, sent_at, responded_at"

type ProposalRepo struct {
	*postgres.Postgres
}

func NewProposalRepo(pgdb *postgres.Postgres) *ProposalRepo {
	return &ProposalRepo{pgdb}
}

// Save inserts new proposals (assigning the id) and updates existing
// ones with a compare-and-swap on the version column, so a concurrent
// writer that already bumped the version makes the update fail with
// repo_errors.ErrVersionMismatch.
func (r *ProposalRepo) Save(ctx context.Context, proposal *entity.Proposal) error {
	if proposal.ID == uuid.Nil {
		return r.insert(ctx, proposal)
	}

	return r.update(ctx, proposal)
}

func (r *ProposalRepo) insert(ctx context.Context, proposal *entity.Proposal) error {
	insertSql, args, _ := r.SqlBuilder.
		Insert("proposals").
		Columns("customer_id", "customer_name", "customer_email", "customer_document",
			"value", "state", "version", "idempotency_key", "created_at").
		Values(proposal.CustomerID, proposal.Customer.Name, proposal.Customer.Email,
			nullString(proposal.Customer.Document), proposal.Value.Amount(),
			proposal.State.String(), proposal.Version,
			nullString(proposal.IdempotencyKey), proposal.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	return r.Database.QueryRowContext(ctx, insertSql, args...).Scan(&proposal.ID)
}

func (r *ProposalRepo) update(ctx context.Context, proposal *entity.Proposal) error {
	updateSql, args, _ := r.SqlBuilder.
		Update("proposals").
		Set("value", proposal.Value.Amount()).
		Set("state", proposal.State.String()).
		Set("version", proposal.Version).
		Set("updated_at", proposal.UpdatedAt).
		Set("sent_at", proposal.SentAt).
		Set("responded_at", proposal.RespondedAt).
		Where("id = ? AND version = ?", proposal.ID, proposal.Version-1).
		ToSql()

	result, err := r.Database.ExecContext(ctx, updateSql, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrVersionMismatch
	}

	return nil
}

func (r *ProposalRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	findSql, args, _ := r.SqlBuilder.
		Select(proposalColumns).
		From("proposals").
		Where("id = ?", id).
		ToSql()

	return r.scanProposal(r.Database.QueryRowContext(ctx, findSql, args...))
}

func (r *ProposalRepo) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Proposal, error) {
	findSql, args, _ := r.SqlBuilder.
		Select(proposalColumns).
		From("proposals").
		Where("idempotency_key = ?", key).
		ToSql()

	return r.scanProposal(r.Database.QueryRowContext(ctx, findSql, args...))
}

// Query runs the count and the page read inside one transaction so the
// returned total can never disagree with the filtered set it was taken
// from.
func (r *ProposalRepo) Query(ctx context.Context, criteria *entity.ProposalCriteria) ([]entity.Proposal, int, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	countSql, countArgs, _ := applyFilters(r.SqlBuilder.Select("COUNT(*)").From("proposals"), criteria).ToSql()

	var total int
	if err := tx.QueryRowContext(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if total == 0 {
		return []entity.Proposal{}, 0, nil
	}

	pageSql, pageArgs, _ := applyFilters(r.SqlBuilder.Select(proposalColumns).From("proposals"), criteria).
		OrderBy(criteria.SortBy+" "+criteria.Direction, "created_at ASC", "id ASC").
		Limit(uint64(criteria.PerPage)).
		Offset(uint64(criteria.Offset())).
		ToSql()

	rows, err := tx.QueryContext(ctx, pageSql, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	proposals := make([]entity.Proposal, 0, criteria.PerPage)
	for rows.Next() {
		proposal, err := r.scanProposalRow(rows)
		if err != nil {
			return nil, 0, err
		}
		proposals = append(proposals, *proposal)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}

	return proposals, total, nil
}

func applyFilters(builder squirrel.SelectBuilder, criteria *entity.ProposalCriteria) squirrel.SelectBuilder {
	if criteria.CustomerID != nil {
		builder = builder.Where(squirrel.Eq{"customer_id": *criteria.CustomerID})
	}
	if criteria.State != nil {
		builder = builder.Where(squirrel.Eq{"state": criteria.State.String()})
	}

	return builder
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ProposalRepo) scanProposal(row rowScanner) (*entity.Proposal, error) {
	proposal, err := r.scanProposalRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return proposal, nil
}

func (r *ProposalRepo) scanProposalRow(row rowScanner) (*entity.Proposal, error) {
	var (
		proposal    entity.Proposal
		document    sql.NullString
		amount      float64
		rawState    string
		key         sql.NullString
		updatedAt   sql.NullTime
		sentAt      sql.NullTime
		respondedAt sql.NullTime
	)

	err := row.Scan(&proposal.ID, &proposal.CustomerID, &proposal.Customer.Name,
		&proposal.Customer.Email, &document, &amount, &rawState, &proposal.Version,
		&key, &proposal.CreatedAt, &updatedAt, &sentAt, &respondedAt)
	if err != nil {
		return nil, err
	}

	proposal.Customer.Document = document.String
	proposal.IdempotencyKey = key.String
	proposal.UpdatedAt = nullableTime(updatedAt)
	proposal.SentAt = nullableTime(sentAt)
	proposal.RespondedAt = nullableTime(respondedAt)

	proposal.Value, err = entity.NewMoney(amount)
	if err != nil {
		return nil, err
	}

	proposal.State, err = state.Parse(rawState)
	if err != nil {
		return nil, err
	}

	return &proposal, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time

	return &value
}
