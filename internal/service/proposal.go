package service

import (
	"context"
	"errors"
	"time"

	"proposal-management-api/internal/common"
	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo"
	"proposal-management-api/internal/repo/repo_errors"
	"proposal-management-api/internal/state"

	"github.com/google/uuid"
)

type ProposalService struct {
	proposalRepo    repo.Proposal
	customerRepo    repo.Customer
	idempotencyRepo repo.IdempotentOperation
	auditService    Audit
	validator       *state.Validator
	clock           func() time.Time
}

func NewProposalService(repos *repo.Repositories, auditService Audit) *ProposalService {
	return &ProposalService{
		proposalRepo:    repos.Proposal,
		customerRepo:    repos.Customer,
		idempotencyRepo: repos.IdempotentOperation,
		auditService:    auditService,
		validator:       state.NewValidator(),
		clock:           time.Now,
	}
}

// CreateProposal creates a draft proposal at version 1. When the input
// carries an idempotency key and a proposal with that key already
// exists, the existing proposal is returned unchanged: a pure read with
// no new version and no new audit record.
func (s *ProposalService) CreateProposal(ctx context.Context, input *entity.CreateProposalInput) (*entity.Proposal, bool, error) {
	var key string
	if input.IdempotencyKey != "" {
		parsed, err := entity.NewIdempotencyKey(input.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		key = parsed.String()

		existing, err := s.proposalRepo.FindByIdempotencyKey(ctx, key)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, repo_errors.ErrNotFound) {
			return nil, false, err
		}
	}

	customer, err := s.customerRepo.FindByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, false, ErrCustomerNotFound
		}

		return nil, false, err
	}

	value, err := entity.NewMoney(input.Value)
	if err != nil {
		return nil, false, err
	}

	proposal := entity.NewProposal(input.CustomerID, customer.Snapshot(), value, key, s.clock())
	if err := s.proposalRepo.Save(ctx, proposal); err != nil {
		return nil, false, err
	}

	err = s.auditService.RecordCreation(ctx, common.EntityTypeProposal, proposal.ID,
		auditSnapshot(proposal), input.Actor, input.Origin)
	if err != nil {
		return nil, false, err
	}

	return proposal, true, nil
}

// SubmitProposal moves a draft to sent and stamps sent_at the first
// time the state is reached.
func (s *ProposalService) SubmitProposal(ctx context.Context, input *entity.ProposalActionInput) (*entity.Proposal, error) {
	return s.transition(ctx, input, state.Sent, common.OpSubmitProposal)
}

func (s *ProposalService) ApproveProposal(ctx context.Context, input *entity.ProposalActionInput) (*entity.Proposal, error) {
	return s.transition(ctx, input, state.Accepted, common.OpApproveProposal)
}

func (s *ProposalService) RejectProposal(ctx context.Context, input *entity.ProposalActionInput) (*entity.Proposal, error) {
	return s.transition(ctx, input, state.Rejected, common.OpRejectProposal)
}

func (s *ProposalService) CancelProposal(ctx context.Context, input *entity.ProposalActionInput) (*entity.Proposal, error) {
	return s.transition(ctx, input, state.Cancelled, common.OpCancelProposal)
}

// UpdateProposal edits proposal fields under the optimistic lock. A nil
// value is a no-op read: no mutation, no version bump, no audit. When a
// value is given the update always bumps the version and records an
// UPDATED_FIELDS diff, even if the amount is unchanged.
func (s *ProposalService) UpdateProposal(ctx context.Context, input *entity.UpdateProposalInput) (*entity.Proposal, error) {
	proposal, err := s.loadAtVersion(ctx, input.ProposalID, input.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	if input.Value == nil {
		return proposal, nil
	}

	before := auditSnapshot(proposal)

	value, err := entity.NewMoney(*input.Value)
	if err != nil {
		return nil, err
	}

	if err := proposal.UpdateValue(value, s.validator, s.clock()); err != nil {
		return nil, err
	}

	if err := s.saveMutated(ctx, proposal); err != nil {
		return nil, err
	}

	err = s.auditService.RecordUpdate(ctx, common.EntityTypeProposal, proposal.ID,
		before, auditSnapshot(proposal), input.Actor, input.Origin)
	if err != nil {
		return nil, err
	}

	return proposal, nil
}

func (s *ProposalService) GetProposalByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	proposal, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrProposalNotFound
		}

		return nil, err
	}

	return proposal, nil
}

func (s *ProposalService) ListProposals(ctx context.Context, criteria *entity.ProposalCriteria) ([]entity.Proposal, int, error) {
	return s.proposalRepo.Query(ctx, criteria)
}

// transition is the shared shape of every state-changing operation:
// idempotency short-circuit, load and version check, domain mutation,
// persist, audit, and finally the idempotency outcome. Persist comes
// before audit on purpose: if the audit append fails the business
// mutation survives and the trail has a gap, never the other way
// around.
func (s *ProposalService) transition(ctx context.Context, input *entity.ProposalActionInput, target state.State, operationType string) (*entity.Proposal, error) {
	var key entity.IdempotencyKey
	if input.IdempotencyKey != "" {
		parsed, err := entity.NewIdempotencyKey(input.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		key = parsed

		replayed, err := s.findReplayedOperation(ctx, key.String(), operationType)
		if err != nil {
			return nil, err
		}
		if replayed != nil {
			return replayed, nil
		}
	}

	proposal, err := s.loadAtVersion(ctx, input.ProposalID, input.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	if target == state.Cancelled {
		// cancellation carries its own guard so cancellation-specific
		// rules can evolve apart from the transition table.
		if err := s.validator.ValidateCancellationPermission(proposal.State); err != nil {
			return nil, err
		}
	}

	priorState := proposal.State
	before := auditSnapshot(proposal)
	now := s.clock()

	if err := proposal.Transition(target, s.validator, now); err != nil {
		return nil, err
	}

	switch target {
	case state.Sent:
		proposal.MarkSent(now)
	case state.Accepted, state.Rejected:
		proposal.MarkResponded(now)
	}

	if err := s.saveMutated(ctx, proposal); err != nil {
		return nil, err
	}

	after := auditSnapshot(proposal)

	err = s.auditService.RecordStatusChange(ctx, common.EntityTypeProposal, proposal.ID,
		priorState.String(), proposal.State.String(), before, after, input.Actor, input.Origin)
	if err != nil {
		return nil, err
	}

	if key.String() != "" {
		record, err := entity.NewOperationRecord(key, operationType, proposal.ID, after, now)
		if err != nil {
			return nil, err
		}
		if err := s.idempotencyRepo.Save(ctx, record); err != nil {
			return nil, err
		}
	}

	return proposal, nil
}

// findReplayedOperation resolves an operation-idempotency hit to the
// proposal it produced. A hit skips the version check entirely: the
// caller is repeating a request that already succeeded.
func (s *ProposalService) findReplayedOperation(ctx context.Context, key, operationType string) (*entity.Proposal, error) {
	record, err := s.idempotencyRepo.Find(ctx, key, operationType)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	proposal, err := s.proposalRepo.FindByID(ctx, record.EntityID)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return proposal, nil
}

func (s *ProposalService) loadAtVersion(ctx context.Context, id uuid.UUID, expected int) (*entity.Proposal, error) {
	proposal, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrProposalNotFound
		}

		return nil, err
	}

	if !proposal.CheckVersion(expected) {
		return nil, &VersionConflictError{Actual: proposal.Version, Expected: expected}
	}

	return proposal, nil
}

// saveMutated persists a mutated proposal and translates the
// repository's compare-and-swap failure into the version-conflict
// error. It re-reads the proposal so Actual carries the version the
// concurrent writer stored, not the one this writer tried to write.
func (s *ProposalService) saveMutated(ctx context.Context, proposal *entity.Proposal) error {
	if err := s.proposalRepo.Save(ctx, proposal); err != nil {
		if errors.Is(err, repo_errors.ErrVersionMismatch) {
			actual := proposal.Version
			if stored, readErr := s.proposalRepo.FindByID(ctx, proposal.ID); readErr == nil {
				actual = stored.Version
			}

			return &VersionConflictError{Actual: actual, Expected: proposal.Version - 1}
		}

		return err
	}

	return nil
}

// auditSnapshot serializes a proposal for the audit payload. This shape
// is for the trail only; HTTP serialization lives in the controller
// layer.
func auditSnapshot(proposal *entity.Proposal) map[string]any {
	return map[string]any{
		"id":          proposal.ID.String(),
		"customer_id": proposal.CustomerID.String(),
		"customer": map[string]any{
			"name":     proposal.Customer.Name,
			"email":    proposal.Customer.Email,
			"document": proposal.Customer.Document,
		},
		"value":           proposal.Value.Amount(),
		"state":           proposal.State.String(),
		"version":         proposal.Version,
		"idempotency_key": proposal.IdempotencyKey,
	}
}
