package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/app/services"
	_ "github.com/shashiranjanraj/orderdesk/database/migrations"
	"github.com/shashiranjanraj/orderdesk/pkg/testkit"
)

type workflow struct {
	orders   *services.OrderService
	products *services.ProductService
	userID   uint
}

func newWorkflow(t *testing.T) *workflow {
	t.Helper()
	db := testkit.NewMigratedDB(t)

	user := models.User{Name: "Ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	productRepo := repositories.NewProductRepository(db)
	orderRepo := repositories.NewOrderRepository(db, productRepo)
	return &workflow{
		orders:   services.NewOrderService(orderRepo, productRepo, nil, nil, 0),
		products: services.NewProductService(productRepo),
		userID:   user.ID,
	}
}

func (w *workflow) product(t *testing.T, price string, stock int) uint {
	t.Helper()
	p, err := w.products.Create(context.Background(), models.ProductData{
		Name: "P", Price: decimal.RequireFromString(price), Stock: stock, IsActive: true,
	})
	require.NoError(t, err)
	return p.ID
}

func (w *workflow) stock(t *testing.T, id uint) int {
	t.Helper()
	p, err := w.products.Find(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestWorkflowScenarios(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	p := w.product(t, "10.00", 5)

	// Place, then fail to over-order.
	order, err := w.orders.CreateOrder(ctx, models.OrderData{
		UserID: w.userID,
		Items:  []models.OrderItemData{{ProductID: p, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "30.00", models.FormatMoney(order.TotalAmount))
	assert.Equal(t, "30.00", models.FormatMoney(order.Items[0].Subtotal))
	assert.Equal(t, 2, w.stock(t, p))

	_, err = w.orders.CreateOrder(ctx, models.OrderData{
		UserID: w.userID,
		Items:  []models.OrderItemData{{ProductID: p, Quantity: 5}},
	})
	var short *apperr.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 2, short.Available)
	assert.Equal(t, 5, short.Requested)
	assert.Equal(t, 2, w.stock(t, p))

	all, err := w.orders.GetAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Bogus status leaves the order alone.
	_, err = w.orders.UpdateOrderStatus(ctx, order.ID, "shipped")
	assert.ErrorIs(t, err, apperr.ErrInvalidStatus)
	stored, err := w.orders.FindOrderOrFail(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)

	// Cancel keeps the stock taken; delete returns it.
	cancelled, err := w.orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, 2, w.stock(t, p))

	ok, err := w.orders.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, w.stock(t, p))

	missing, err := w.orders.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWorkflowTwoProducts(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	p1 := w.product(t, "5.00", 10)
	p2 := w.product(t, "20.00", 1)

	order, err := w.orders.CreateOrder(ctx, models.OrderData{
		UserID: w.userID,
		Items: []models.OrderItemData{
			{ProductID: p1, Quantity: 2},
			{ProductID: p2, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "30.00", models.FormatMoney(order.TotalAmount))
	assert.True(t, order.TotalAmount.Equal(order.CalculateTotal()))
	assert.Equal(t, 8, w.stock(t, p1))
	assert.Equal(t, 0, w.stock(t, p2))

	mine, err := w.orders.GetOrdersByUser(ctx, w.userID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)
}

func TestAdjustStock(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	p := w.product(t, "1.00", 2)

	updated, err := w.products.AdjustStock(ctx, p, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Stock)

	_, err = w.products.AdjustStock(ctx, p, -6)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, 5, w.stock(t, p))

	ok, err := w.products.HasStock(ctx, p, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = w.products.Create(ctx, models.ProductData{Name: " ", Price: decimal.Zero})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
