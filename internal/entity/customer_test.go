package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer("Ana Souza", "Ana@Example.COM", "12345678900", "key-1", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", c.Name)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, "12345678900", c.Document)
	assert.Equal(t, "key-1", c.IdempotencyKey)
	assert.False(t, c.IsDeleted())
}

func TestNewCustomerValidation(t *testing.T) {
	_, err := NewCustomer("Al", "ana@example.com", "", "", time.Now())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewCustomer("Ana Souza", "not-an-email", "", "", time.Now())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewCustomer("Ana Souza", "", "", "", time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCustomerSnapshot(t *testing.T) {
	c, err := NewCustomer("Ana Souza", "ana@example.com", "12345678900", "", time.Now())
	require.NoError(t, err)

	snapshot := c.Snapshot()
	assert.Equal(t, c.Name, snapshot.Name)
	assert.Equal(t, c.Email, snapshot.Email)
	assert.Equal(t, c.Document, snapshot.Document)
}

func TestCustomerMarkDeleted(t *testing.T) {
	c, err := NewCustomer("Ana Souza", "ana@example.com", "", "", time.Now())
	require.NoError(t, err)

	now := time.Now()
	assert.True(t, c.MarkDeleted(now))
	assert.True(t, c.IsDeleted())
	require.NotNil(t, c.DeletedAt)
	assert.Equal(t, now, *c.DeletedAt)

	// second deletion is a no-op
	assert.False(t, c.MarkDeleted(now.Add(time.Hour)))
	assert.Equal(t, now, *c.DeletedAt)
}
