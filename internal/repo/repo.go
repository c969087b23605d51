package repo

import (
	"context"

	"proposal-management-api/internal/audit"
	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo/memory"
	"proposal-management-api/internal/repo/pgdb"
	"proposal-management-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

// Proposal persists proposals. Save assigns an id on first save; for
// existing proposals it is a compare-and-swap on the version column and
// fails with repo_errors.ErrVersionMismatch when a concurrent writer
// got there first.
type Proposal interface {
	Save(ctx context.Context, proposal *entity.Proposal) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*entity.Proposal, error)
	Query(ctx context.Context, criteria *entity.ProposalCriteria) ([]entity.Proposal, int, error)
}

type Customer interface {
	Save(ctx context.Context, customer *entity.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	FindByEmail(ctx context.Context, email string) (*entity.Customer, error)
	FindByDocument(ctx context.Context, document string) (*entity.Customer, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*entity.Customer, error)
}

// Audit is append-only by contract: records are never updated or
// deleted after Append.
type Audit interface {
	Append(ctx context.Context, record *audit.Record) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]audit.Record, error)
}

// IdempotentOperation stores operation outcomes keyed on the unique
// (key, operation type) pair. Save is a no-op when the pair already
// exists.
type IdempotentOperation interface {
	Find(ctx context.Context, key, operationType string) (*entity.OperationRecord, error)
	Save(ctx context.Context, record *entity.OperationRecord) error
}

type Repositories struct {
	Diagnostics
	Proposal
	Customer
	Audit
	IdempotentOperation
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics:         pgdb.NewDiagnosticsRepo(p),
		Proposal:            pgdb.NewProposalRepo(p),
		Customer:            pgdb.NewCustomerRepo(p),
		Audit:               pgdb.NewAuditRepo(p),
		IdempotentOperation: pgdb.NewIdempotentOperationRepo(p),
	}
}

// NewMemoryRepositories builds the in-memory backend, used by tests and
// the REPOSITORY_BACKEND=memory deployment mode.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Diagnostics:         memory.NewDiagnosticsRepo(),
		Proposal:            memory.NewProposalRepo(),
		Customer:            memory.NewCustomerRepo(),
		Audit:               memory.NewAuditRepo(),
		IdempotentOperation: memory.NewIdempotentOperationRepo(),
	}
}
