package memory

import (
	"context"
	"sync"

	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type CustomerRepo struct {
	mu         sync.RWMutex
	customers  map[uuid.UUID]*entity.Customer
	byEmail    map[string]uuid.UUID
	byDocument map[string]uuid.UUID
	byKey      map[string]uuid.UUID
}

func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{
		customers:  make(map[uuid.UUID]*entity.Customer),
		byEmail:    make(map[string]uuid.UUID),
		byDocument: make(map[string]uuid.UUID),
		byKey:      make(map[string]uuid.UUID),
	}
}

func (r *CustomerRepo) Save(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}

	r.customers[customer.ID] = cloneCustomer(customer)
	r.byEmail[customer.Email] = customer.ID
	if customer.Document != "" {
		r.byDocument[customer.Document] = customer.ID
	}
	if customer.IdempotencyKey != "" {
		r.byKey[customer.IdempotencyKey] = customer.ID
	}

	return nil
}

func (r *CustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lookup(id)
}

func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[email]
	if !exists {
		return nil, repo_errors.ErrNotFound
	}

	return r.lookup(id)
}

func (r *CustomerRepo) FindByDocument(ctx context.Context, document string) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byDocument[document]
	if !exists {
		return nil, repo_errors.ErrNotFound
	}

	return r.lookup(id)
}

func (r *CustomerRepo) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byKey[key]
	if !exists {
		return nil, repo_errors.ErrNotFound
	}

	return r.lookup(id)
}

// lookup treats soft-deleted customers as missing: every read path
// excludes them.
func (r *CustomerRepo) lookup(id uuid.UUID) (*entity.Customer, error) {
	customer, exists := r.customers[id]
	if !exists || customer.IsDeleted() {
		return nil, repo_errors.ErrNotFound
	}

	return cloneCustomer(customer), nil
}

func cloneCustomer(c *entity.Customer) *entity.Customer {
	clone := *c
	clone.UpdatedAt = cloneTime(c.UpdatedAt)
	clone.DeletedAt = cloneTime(c.DeletedAt)

	return &clone
}
