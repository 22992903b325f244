package kernel_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/app/models"
	_ "github.com/shashiranjanraj/orderdesk/database/migrations"
	"github.com/shashiranjanraj/orderdesk/internal/app"
	"github.com/shashiranjanraj/orderdesk/internal/kernel"
	"github.com/shashiranjanraj/orderdesk/pkg/auth"
	"github.com/shashiranjanraj/orderdesk/pkg/testkit"
)

type api struct {
	t       *testing.T
	a       *app.App
	handler http.Handler
	token   string
	user    models.User
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db := testkit.NewMigratedDB(t)
	a := app.Build(db, app.Options{PerPage: 15})

	r, err := kernel.New(a, nil)
	require.NoError(t, err)

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	user := models.User{Name: "Ada", Email: "ada@example.com", Password: hash, Role: "customer"}
	require.NoError(t, db.Create(&user).Error)

	token, err := auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)

	return &api{t: t, a: a, handler: r.Handler(), token: token, user: user}
}

func (x *api) do(method, path string, body interface{}) (int, testkit.Envelope) {
	x.t.Helper()
	rec, env := testkit.Do(x.t, x.handler, testkit.Request{Method: method, Path: path, Body: body, Token: x.token})
	return rec.Code, env
}

func (x *api) product(name, price string, stock int) uint {
	x.t.Helper()
	p, err := x.a.Products.Create(x.t.Context(), models.ProductData{
		Name: name, Price: decimal.RequireFromString(price), Stock: stock, IsActive: true,
	})
	require.NoError(x.t, err)
	return p.ID
}

func (x *api) stock(id uint) int {
	x.t.Helper()
	p, err := x.a.Products.Find(x.t.Context(), id)
	require.NoError(x.t, err)
	return p.Stock
}

type orderBody struct {
	ID          uint   `json:"id"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
	Items       []struct {
		ProductID uint   `json:"product_id"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unit_price"`
		Subtotal  string `json:"subtotal"`
	} `json:"items"`
}

func TestOrderLifecycle(t *testing.T) {
	x := newAPI(t)
	widget := x.product("Widget", "10.00", 5)
	gadget := x.product("Gadget", "2.50", 10)

	code, env := x.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"user_id": x.user.ID,
		"items": []map[string]interface{}{
			{"product_id": widget, "quantity": 2},
			{"product_id": gadget, "quantity": 4, "unit_price": "2.00"},
		},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var order orderBody
	testkit.DecodeData(t, env, &order)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "28.00", order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "20.00", order.Items[0].Subtotal)
	assert.Equal(t, "2.00", order.Items[1].UnitPrice)
	assert.Equal(t, 3, x.stock(widget))
	assert.Equal(t, 6, x.stock(gadget))

	path := fmt.Sprintf("/api/orders/%d", order.ID)

	code, env = x.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, code)
	testkit.DecodeData(t, env, &order)
	assert.Equal(t, "28.00", order.TotalAmount)

	code, env = x.do(http.MethodPatch, path+"/status", map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors["status"], "pending, processing, completed, cancelled")

	code, env = x.do(http.MethodPatch, path+"/status", map[string]string{"status": "processing"})
	require.Equal(t, http.StatusOK, code)
	testkit.DecodeData(t, env, &order)
	assert.Equal(t, "processing", order.Status)

	code, _ = x.do(http.MethodPost, path+"/cancel", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, x.stock(widget))

	code, env = x.do(http.MethodGet, fmt.Sprintf("/api/users/%d/orders", x.user.ID), nil)
	require.Equal(t, http.StatusOK, code)
	var mine []orderBody
	testkit.DecodeData(t, env, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "cancelled", mine[0].Status)

	code, env = x.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"deleted":true}`, string(env.Data))
	assert.Equal(t, 5, x.stock(widget))
	assert.Equal(t, 10, x.stock(gadget))

	code, _ = x.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = x.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStoreOrderInsufficientStock(t *testing.T) {
	x := newAPI(t)
	widget := x.product("Widget", "10.00", 1)

	code, env := x.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"user_id": x.user.ID,
		"items":   []map[string]interface{}{{"product_id": widget, "quantity": 2}},
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Insufficient stock for product 'Widget'. Available: 1, Requested: 2.", env.Message)
	assert.JSONEq(t, fmt.Sprintf(`{"product_id":%d,"available":1,"requested":2}`, widget), string(env.Data))
	assert.Equal(t, 1, x.stock(widget))
}

func TestStoreOrderValidation(t *testing.T) {
	x := newAPI(t)
	widget := x.product("Widget", "10.00", 5)

	code, env := x.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"user_id": x.user.ID,
		"items":   []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "items")

	code, env = x.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"user_id": x.user.ID + 100,
		"items":   []map[string]interface{}{{"product_id": widget, "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "The selected user_id is invalid.", env.Errors["user_id"])

	code, _ = x.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"user_id": x.user.ID,
		"items":   []map[string]interface{}{{"product_id": 999, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = x.do(http.MethodPost, "/api/orders", `{"user_id":`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = x.do(http.MethodGet, "/api/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestOrdersRequireToken(t *testing.T) {
	x := newAPI(t)
	rec, env := testkit.Do(t, x.handler, testkit.Request{Method: http.MethodGet, Path: "/api/orders"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", env.Message)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRegisterAndLogin(t *testing.T) {
	x := newAPI(t)

	rec, _ := testkit.Do(t, x.handler, testkit.Request{Method: http.MethodPost, Path: "/api/register", Body: map[string]string{
		"name": "Grace", "email": "grace@example.com", "password": "password123",
	}})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = testkit.Do(t, x.handler, testkit.Request{Method: http.MethodPost, Path: "/api/register", Body: map[string]string{
		"name": "Grace", "email": "GRACE@example.com", "password": "password123",
	}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env := testkit.Do(t, x.handler, testkit.Request{Method: http.MethodPost, Path: "/api/login", Body: map[string]string{
		"email": "grace@example.com", "password": "password123",
	}})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
	}
	testkit.DecodeData(t, env, &login)
	assert.Equal(t, "Bearer", login.TokenType)

	rec, _ = testkit.Do(t, x.handler, testkit.Request{Method: http.MethodGet, Path: "/api/products", Token: login.Token})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testkit.Do(t, x.handler, testkit.Request{Method: http.MethodPost, Path: "/api/login", Body: map[string]string{
		"email": "grace@example.com", "password": "wrong-password",
	}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductEndpoints(t *testing.T) {
	x := newAPI(t)

	code, env := x.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Lamp", "price": "19.999", "stock": 3,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var product struct {
		ID       uint   `json:"id"`
		Price    string `json:"price"`
		Stock    int    `json:"stock"`
		IsActive bool   `json:"is_active"`
	}
	testkit.DecodeData(t, env, &product)
	assert.Equal(t, "20.00", product.Price)
	assert.True(t, product.IsActive)

	code, env = x.do(http.MethodPost, "/api/products", map[string]interface{}{"name": "Free"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "price")

	path := fmt.Sprintf("/api/products/%d", product.ID)
	code, env = x.do(http.MethodPost, path+"/stock", map[string]int{"delta": -5})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 3, x.stock(product.ID))

	code, env = x.do(http.MethodPost, path+"/stock", map[string]int{"delta": 4})
	require.Equal(t, http.StatusOK, code)
	testkit.DecodeData(t, env, &product)
	assert.Equal(t, 7, product.Stock)

	code, _ = x.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"user_id": x.user.ID,
		"items":   []map[string]interface{}{{"product_id": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = x.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestOperationalEndpoints(t *testing.T) {
	x := newAPI(t)

	rec, env := testkit.Do(t, x.handler, testkit.Request{Method: http.MethodGet, Path: "/healthz"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"database":"up","ws_clients":0}`, string(env.Data))

	rec, _ = testkit.Do(t, x.handler, testkit.Request{Method: http.MethodGet, Path: "/metrics"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = testkit.Do(t, x.handler, testkit.Request{Method: http.MethodGet, Path: "/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found.", env.Message)
}

func TestGraphQLOrderQuery(t *testing.T) {
	x := newAPI(t)
	widget := x.product("Widget", "1.50", 5)
	order, err := x.a.Orders.CreateOrder(t.Context(), models.OrderData{
		UserID: x.user.ID,
		Items:  []models.OrderItemData{{ProductID: widget, Quantity: 2}},
	})
	require.NoError(t, err)

	rec := httptestGraphQL(t, x, fmt.Sprintf(`{ order(id: %d) { id status total_amount } }`, order.ID))
	assert.Equal(t, http.StatusOK, rec.code)
	assert.Contains(t, rec.body, `"total_amount":"3.00"`)
}

type gqlResult struct {
	code int
	body string
}

func httptestGraphQL(t *testing.T, x *api, query string) gqlResult {
	t.Helper()
	rec, _ := testkit.Do(t, x.handler, testkit.Request{
		Method: http.MethodPost,
		Path:   "/graphql",
		Body:   map[string]string{"query": query},
		Token:  x.token,
	})
	return gqlResult{code: rec.Code, body: rec.Body.String()}
}

func TestUserEndpoints(t *testing.T) {
	x := newAPI(t)

	type detailBody struct {
		Phone       *string `json:"phone"`
		City        *string `json:"city"`
		DateOfBirth *string `json:"date_of_birth"`
	}
	type userBody struct {
		ID     uint        `json:"id"`
		Name   string      `json:"name"`
		Email  string      `json:"email"`
		Role   string      `json:"role"`
		Detail *detailBody `json:"detail"`
	}

	code, env := x.do(http.MethodPost, "/api/users", map[string]interface{}{
		"name": "Grace", "email": "Grace@Example.com", "password": "password123",
		"city": "Arlington", "date_of_birth": "1990-04-12",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var grace userBody
	testkit.DecodeData(t, env, &grace)
	assert.Equal(t, "grace@example.com", grace.Email)
	assert.Equal(t, "customer", grace.Role)
	require.NotNil(t, grace.Detail)
	assert.Equal(t, "Arlington", *grace.Detail.City)
	assert.Equal(t, "1990-04-12", *grace.Detail.DateOfBirth)

	code, env = x.do(http.MethodPost, "/api/users", map[string]interface{}{
		"name": "Bad", "email": "bad@example.com", "password": "password123", "date_of_birth": "12/04/1990",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "date_of_birth")

	code, env = x.do(http.MethodPost, "/api/users", map[string]interface{}{"name": "NoPass", "email": "np@example.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "password")

	code, _ = x.do(http.MethodPost, "/api/users", map[string]interface{}{
		"name": "Dup", "email": "grace@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, env = x.do(http.MethodGet, "/api/users?per_page=1&page=2", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items      []userBody `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	testkit.DecodeData(t, env, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, grace.ID, page.Items[0].ID)
	assert.Equal(t, int64(2), page.Pagination.Total)

	path := fmt.Sprintf("/api/users/%d", grace.ID)
	code, env = x.do(http.MethodPut, path, map[string]interface{}{
		"name": "Grace Hopper", "email": "grace@example.com", "phone": "555-0100",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	testkit.DecodeData(t, env, &grace)
	assert.Equal(t, "Grace Hopper", grace.Name)
	assert.Equal(t, "555-0100", *grace.Detail.Phone)
	assert.Equal(t, "Arlington", *grace.Detail.City)

	code, _ = x.do(http.MethodPost, "/api/login", map[string]interface{}{
		"email": "grace@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, code, "password kept when the update omits it")

	code, _ = x.do(http.MethodPut, path, map[string]interface{}{"name": "Grace", "email": "ada@example.com"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = x.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = x.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = x.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, code)

	p := x.product("Lamp", "5.00", 3)
	code, _ = x.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"user_id": x.user.ID,
		"items":   []map[string]interface{}{{"product_id": p, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = x.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", x.user.ID), nil)
	assert.Equal(t, http.StatusConflict, code)
}
