package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsufficientStockMessage(t *testing.T) {
	err := error(&InsufficientStockError{ProductID: 1, ProductName: "Widget", Available: 2, Requested: 5})

	assert.EqualError(t, err, "insufficient stock for product 'Widget'. Available: 2, Requested: 5")
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NotErrorIs(t, err, ErrNotFound)

	var stock *InsufficientStockError
	require.ErrorAs(t, fmt.Errorf("create order: %w", err), &stock)
	assert.Equal(t, 2, stock.Available)
}

func TestInvalidStatusListsValidValues(t *testing.T) {
	err := &InvalidStatusError{Status: "shipped", Valid: []string{"pending", "processing", "completed", "cancelled"}}

	assert.Equal(t, `invalid status "shipped". Must be one of: pending, processing, completed, cancelled`, err.Error())
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNotFound(t *testing.T) {
	err := NotFound("order", 999)
	assert.EqualError(t, err, "order 999 not found")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistenceWrapping(t *testing.T) {
	driverErr := errors.New("disk I/O error")

	err := Persistence("create order", driverErr)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, driverErr)
	assert.EqualError(t, err, "persistence: create order: disk I/O error")

	nf := NotFound("product", 3)
	assert.Same(t, nf, Persistence("decrease stock", nf))
	assert.NoError(t, Persistence("noop", nil))
}

func TestIsDomain(t *testing.T) {
	assert.True(t, IsDomain(Invalid("items", "at least one item is required")))
	assert.True(t, IsDomain(&ConflictError{Entity: "product", ID: 1, Reason: "referenced by orders"}))
	assert.False(t, IsDomain(errors.New("plain")))
}
