package graph

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
)

type fakeOrders struct {
	orders map[uint]models.Order
}

func (f fakeOrders) FindOrder(_ context.Context, id uint) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f fakeOrders) GetOrdersByUser(_ context.Context, userID uint) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f fakeOrders) GetAllOrders(context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

type fakeProducts struct {
	lastActive bool
}

func (f *fakeProducts) List(_ context.Context, page, perPage int, activeOnly bool) ([]models.Product, orm.Pagination, error) {
	f.lastActive = activeOnly
	return []models.Product{{ID: 1, Name: "Widget", Price: decimal.RequireFromString("9.5"), Stock: 4, IsActive: true}},
		orm.Pagination{Page: page, PerPage: perPage, Total: 1, LastPage: 1}, nil
}

func run(t *testing.T, schema graphql.Schema, query string) map[string]interface{} {
	t.Helper()
	res := graphql.Do(graphql.Params{Schema: schema, RequestString: query, Context: context.Background()})
	require.Empty(t, res.Errors)
	return res.Data.(map[string]interface{})
}

func TestSchemaQueries(t *testing.T) {
	orders := fakeOrders{orders: map[uint]models.Order{
		1: {
			ID: 1, UserID: 2, Status: models.StatusPending,
			TotalAmount: decimal.RequireFromString("19"),
			Items: []models.OrderItem{{
				ID: 1, ProductID: 1, Quantity: 2,
				UnitPrice: decimal.RequireFromString("9.5"),
				Subtotal:  decimal.RequireFromString("19"),
			}},
		},
	}}
	products := &fakeProducts{}

	schema, err := NewSchema(orders, products)
	require.NoError(t, err)

	data := run(t, schema, `{ order(id: 1) { id status total_amount items { quantity unit_price } } }`)
	order := data["order"].(map[string]interface{})
	assert.Equal(t, 1, order["id"])
	assert.Equal(t, "19.00", order["total_amount"])
	items := order["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "9.50", items[0].(map[string]interface{})["unit_price"])

	data = run(t, schema, `{ order(id: 99) { id } }`)
	assert.Nil(t, data["order"])

	data = run(t, schema, `{ orders(user_id: 2) { id } }`)
	assert.Len(t, data["orders"], 1)
	data = run(t, schema, `{ orders(user_id: 3) { id } }`)
	assert.Empty(t, data["orders"])

	data = run(t, schema, `{ products(active: true) { name price stock } }`)
	assert.True(t, products.lastActive)
	list := data["products"].([]interface{})
	assert.Equal(t, "9.50", list[0].(map[string]interface{})["price"])
}
