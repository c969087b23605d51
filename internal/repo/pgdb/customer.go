package pgdb

import (
	"context"
	"database/sql"
	"errors"

	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo/repo_errors"
	"proposal-management-api/pkg/postgres"

	"github.com/google/uuid"
)

const customerColumns = "id, name, email, document, idempotency_key, created_at, updated_at, deleted_at"

type CustomerRepo struct {
	*postgres.Postgres
}

func NewCustomerRepo(pgdb *postgres.Postgres) *CustomerRepo {
	return &CustomerRepo{pgdb}
}

func (r *CustomerRepo) Save(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		insertSql, args, _ := r.SqlBuilder.
			Insert("customers").
			Columns("name", "email", "document", "idempotency_key", "created_at").
			Values(customer.Name, customer.Email, nullString(customer.Document),
				nullString(customer.IdempotencyKey), customer.CreatedAt).
			Suffix("RETURNING id").
			ToSql()

		return r.Database.QueryRowContext(ctx, insertSql, args...).Scan(&customer.ID)
	}

	updateSql, args, _ := r.SqlBuilder.
		Update("customers").
		Set("name", customer.Name).
		Set("email", customer.Email).
		Set("document", nullString(customer.Document)).
		Set("updated_at", customer.UpdatedAt).
		Set("deleted_at", customer.DeletedAt).
		Where("id = ?", customer.ID).
		ToSql()

	_, err := r.Database.ExecContext(ctx, updateSql, args...)

	return err
}

func (r *CustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return r.findBy(ctx, "id = ?", id)
}

func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return r.findBy(ctx, "email = ?", email)
}

func (r *CustomerRepo) FindByDocument(ctx context.Context, document string) (*entity.Customer, error) {
	return r.findBy(ctx, "document = ?", document)
}

func (r *CustomerRepo) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Customer, error) {
	return r.findBy(ctx, "idempotency_key = ?", key)
}

// findBy excludes soft-deleted customers from every read path.
func (r *CustomerRepo) findBy(ctx context.Context, condition string, arg any) (*entity.Customer, error) {
	findSql, args, _ := r.SqlBuilder.
		Select(customerColumns).
		From("customers").
		Where(condition, arg).
		Where("deleted_at IS NULL").
		ToSql()

	var (
		customer  entity.Customer
		document  sql.NullString
		key       sql.NullString
		updatedAt sql.NullTime
		deletedAt sql.NullTime
	)

	err := r.Database.QueryRowContext(ctx, findSql, args...).Scan(&customer.ID,
		&customer.Name, &customer.Email, &document, &key, &customer.CreatedAt,
		&updatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	customer.Document = document.String
	customer.IdempotencyKey = key.String
	customer.UpdatedAt = nullableTime(updatedAt)
	customer.DeletedAt = nullableTime(deletedAt)

	return &customer, nil
}
