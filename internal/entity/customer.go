package entity

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CustomerSnapshot is the immutable copy of customer data embedded in a
// proposal at creation time. It keeps the proposal stable even if the
// customer record changes later.
type CustomerSnapshot struct {
	Name     string
	Email    string
	Document string
}

func NewCustomerSnapshot(name, email, document string) (CustomerSnapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CustomerSnapshot{}, fmt.Errorf("%w: customer name is required", ErrValidation)
	}

	normalizedEmail, err := normalizeEmail(email)
	if err != nil {
		return CustomerSnapshot{}, err
	}

	return CustomerSnapshot{
		Name:     name,
		Email:    normalizedEmail,
		Document: strings.TrimSpace(document),
	}, nil
}

// db model
type Customer struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Document       string
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}

// NewCustomer validates and builds a customer. The idempotency key is
// optional and, when present, is set once at creation.
func NewCustomer(name, email, document, idempotencyKey string, now time.Time) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}

	if len(name) < 3 {
		return nil, fmt.Errorf("%w: customer name must have at least 3 characters", ErrValidation)
	}

	normalizedEmail, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	customer := &Customer{
		Name:      name,
		Email:     normalizedEmail,
		Document:  strings.TrimSpace(document),
		CreatedAt: now,
	}

	if strings.TrimSpace(idempotencyKey) != "" {
		key, err := NewIdempotencyKey(idempotencyKey)
		if err != nil {
			return nil, err
		}
		customer.IdempotencyKey = key.String()
	}

	return customer, nil
}

// Snapshot copies the customer data embedded in proposals.
func (c *Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		Name:     c.Name,
		Email:    c.Email,
		Document: c.Document,
	}
}

// MarkDeleted sets the soft-delete timestamp once. It reports whether
// the call changed anything.
func (c *Customer) MarkDeleted(now time.Time) bool {
	if c.DeletedAt != nil {
		return false
	}

	c.DeletedAt = &now

	return true
}

func (c *Customer) IsDeleted() bool {
	return c.DeletedAt != nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}

	return email, nil
}
