package service

import (
	"context"

	"proposal-management-api/internal/audit"
	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

// Proposal is the orchestrator for proposal use cases. Every mutating
// operation follows the same shape: idempotency short-circuit, load,
// version check, domain mutation, persist, audit, idempotency outcome.
type Proposal interface {
	// CreateProposal returns the proposal and whether it was newly
	// created (false means an idempotent replay returned the existing
	// one).
	CreateProposal(ctx context.Context, input *entity.CreateProposalInput) (*entity.Proposal, bool, error)

	SubmitProposal(ctx context.Context, input *entity.ProposalActionInput) (*entity.Proposal, error)
	ApproveProposal(ctx context.Context, input *entity.ProposalActionInput) (*entity.Proposal, error)
	RejectProposal(ctx context.Context, input *entity.ProposalActionInput) (*entity.Proposal, error)
	CancelProposal(ctx context.Context, input *entity.ProposalActionInput) (*entity.Proposal, error)

	UpdateProposal(ctx context.Context, input *entity.UpdateProposalInput) (*entity.Proposal, error)

	GetProposalByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error)
	ListProposals(ctx context.Context, criteria *entity.ProposalCriteria) ([]entity.Proposal, int, error)
}

type Customer interface {
	// CreateCustomer returns the customer and whether it was newly
	// created (false on idempotent replay).
	CreateCustomer(ctx context.Context, input *entity.CreateCustomerInput) (*entity.Customer, bool, error)
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID, actor, origin string) error
}

type Audit interface {
	RecordCreation(ctx context.Context, entityType string, entityID uuid.UUID, snapshot map[string]any, actor, origin string) error
	RecordUpdate(ctx context.Context, entityType string, entityID uuid.UUID, before, after map[string]any, actor, origin string) error
	RecordStatusChange(ctx context.Context, entityType string, entityID uuid.UUID, priorState, newState string, before, after map[string]any, actor, origin string) error
	RecordLogicalDeletion(ctx context.Context, entityType string, entityID uuid.UUID, snapshot map[string]any, actor, origin string) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]audit.Record, error)
}

type Services struct {
	Diagnostics Diagnostics
	Proposal    Proposal
	Customer    Customer
	Audit       Audit
}

func NewServices(repos *repo.Repositories) *Services {
	auditService := NewAuditService(repos)

	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Proposal:    NewProposalService(repos, auditService),
		Customer:    NewCustomerService(repos, auditService),
		Audit:       auditService,
	}
}
