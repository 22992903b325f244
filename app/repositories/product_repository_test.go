package repositories_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
)

func TestDecreaseStockGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget := f.product(t, "Widget", "1.00", 3)

	require.NoError(t, f.products.DecreaseStock(ctx, widget.ID, 3))
	assert.Equal(t, 0, f.stock(t, widget.ID))

	err := f.products.DecreaseStock(ctx, widget.ID, 1)
	var short *apperr.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 0, short.Available)
	assert.Equal(t, 0, f.stock(t, widget.ID))

	assert.ErrorIs(t, f.products.DecreaseStock(ctx, 999, 1), apperr.ErrNotFound)
	assert.ErrorIs(t, f.products.DecreaseStock(ctx, widget.ID, -1), apperr.ErrValidation)
}

func TestIncreaseStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget := f.product(t, "Widget", "1.00", 0)

	require.NoError(t, f.products.IncreaseStock(ctx, widget.ID, 7))
	assert.Equal(t, 7, f.stock(t, widget.ID))
	assert.ErrorIs(t, f.products.IncreaseStock(ctx, 999, 1), apperr.ErrNotFound)
}

func TestProductUpdateLeavesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget := f.product(t, "Widget", "1.00", 9)

	updated, err := f.products.Update(ctx, widget.ID, models.ProductData{
		Name:     "Widget Pro",
		Price:    decimal.RequireFromString("4.255"),
		Stock:    0,
		IsActive: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", updated.Name)
	assert.Equal(t, "4.26", models.FormatMoney(updated.Price))
	assert.Equal(t, 9, updated.Stock)
	assert.False(t, updated.IsActive)
}

func TestProductPaginateActiveOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "A", "1.00", 1)
	hidden := f.product(t, "B", "1.00", 1)
	_, err := f.products.Update(ctx, hidden.ID, models.ProductData{Name: "B", Price: hidden.Price})
	require.NoError(t, err)

	items, p, err := f.products.Paginate(ctx, 1, 10, true)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), p.Total)

	all, _, err := f.products.Paginate(ctx, 1, 10, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteProductInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget := f.product(t, "Widget", "1.00", 5)
	spare := f.product(t, "Spare", "1.00", 5)

	_, err := f.orders.Create(ctx, models.OrderData{
		UserID: f.user.ID,
		Items:  []models.OrderItemData{{ProductID: widget.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.products.Delete(ctx, widget.ID), apperr.ErrConflict)
	require.NoError(t, f.products.Delete(ctx, spare.ID))
	assert.ErrorIs(t, f.products.Delete(ctx, spare.ID), apperr.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := repositories.NewUserRepository(f.db)

	found, err := users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, found.ID)

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	ok, err := users.Exists(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = users.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecreaseStockRejectsStaleRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget := f.product(t, "Widget", "1.00", 5)

	// A reader sees 5 units and decides 3 can be taken.
	var seen *models.Product
	err := database.Transaction(ctx, f.db, func(tx *gorm.DB) error {
		var err error
		seen, err = f.products.WithTx(tx).FindByID(ctx, widget.ID)
		return err
	})
	require.NoError(t, err)
	require.True(t, seen.HasStock(3))

	// Another transaction drains the product first.
	require.NoError(t, database.Transaction(ctx, f.db, func(tx *gorm.DB) error {
		return f.products.WithTx(tx).DecreaseStock(ctx, widget.ID, 5)
	}))

	// Acting on the stale read must fail at the UPDATE itself.
	err = database.Transaction(ctx, f.db, func(tx *gorm.DB) error {
		return f.products.WithTx(tx).DecreaseStock(ctx, widget.ID, 3)
	})
	var short *apperr.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 0, short.Available)
	assert.Equal(t, 3, short.Requested)
	assert.Equal(t, 0, f.stock(t, widget.ID))
}
