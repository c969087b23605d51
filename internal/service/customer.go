package service

import (
	"context"
	"errors"
	"time"

	"proposal-management-api/internal/common"
	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo"
	"proposal-management-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type CustomerService struct {
	customerRepo repo.Customer
	auditService Audit
	clock        func() time.Time
}

func NewCustomerService(repos *repo.Repositories, auditService Audit) *CustomerService {
	return &CustomerService{
		customerRepo: repos.Customer,
		auditService: auditService,
		clock:        time.Now,
	}
}

// CreateCustomer registers a customer, holding email and document
// unique among non-deleted customers. A repeated idempotency key
// returns the original customer without touching uniqueness checks.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *entity.CreateCustomerInput) (*entity.Customer, bool, error) {
	var key string
	if input.IdempotencyKey != "" {
		parsed, err := entity.NewIdempotencyKey(input.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		key = parsed.String()

		existing, err := s.customerRepo.FindByIdempotencyKey(ctx, key)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, repo_errors.ErrNotFound) {
			return nil, false, err
		}
	}

	customer, err := entity.NewCustomer(input.Name, input.Email, input.Document, key, s.clock())
	if err != nil {
		return nil, false, err
	}

	if _, err := s.customerRepo.FindByEmail(ctx, customer.Email); err == nil {
		return nil, false, ErrCustomerEmailTaken
	} else if !errors.Is(err, repo_errors.ErrNotFound) {
		return nil, false, err
	}

	if customer.Document != "" {
		if _, err := s.customerRepo.FindByDocument(ctx, customer.Document); err == nil {
			return nil, false, ErrCustomerDocumentTaken
		} else if !errors.Is(err, repo_errors.ErrNotFound) {
			return nil, false, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, false, err
	}

	snapshot := customerAuditSnapshot(customer)
	err = s.auditService.RecordCreation(ctx, common.EntityTypeCustomer, customer.ID,
		snapshot, input.Actor, input.Origin)
	if err != nil {
		return nil, false, err
	}

	return customer, true, nil
}

func (s *CustomerService) GetCustomerByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}

		return nil, err
	}

	return customer, nil
}

// DeleteCustomer soft-deletes a customer. The row stays in storage so
// proposal snapshots and the audit trail keep their references; reads
// simply stop returning it. Deleting twice is not an error: the second
// call finds nothing and reports not found.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID, actor, origin string) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrCustomerNotFound
		}

		return err
	}

	before := customerAuditSnapshot(customer)
	if !customer.MarkDeleted(s.clock()) {
		return ErrCustomerNotFound
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return err
	}

	return s.auditService.RecordLogicalDeletion(ctx, common.EntityTypeCustomer, customer.ID,
		before, actor, origin)
}

func customerAuditSnapshot(customer *entity.Customer) map[string]any {
	return map[string]any{
		"id":       customer.ID.String(),
		"name":     customer.Name,
		"email":    customer.Email,
		"document": customer.Document,
	}
}
