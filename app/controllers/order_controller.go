package controllers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/resources"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
	"github.com/shashiranjanraj/orderdesk/pkg/resource"
)

// OrderWorkflow is the part of services.OrderService the controller uses.
type OrderWorkflow interface {
	CreateOrder(ctx context.Context, data models.OrderData) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error)
	CancelOrder(ctx context.Context, id uint) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uint) (bool, error)
	FindOrderOrFail(ctx context.Context, id uint) (*models.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error)
	GetPaginatedOrders(ctx context.Context, page, perPage int) ([]models.Order, orm.Pagination, error)
}

// UserChecker answers whether a user id exists.
type UserChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type OrderController struct {
	orders  OrderWorkflow
	users   UserChecker
	perPage int
}

func NewOrderController(orders OrderWorkflow, users UserChecker, perPage int) *OrderController {
	return &OrderController{orders: orders, users: users, perPage: perPage}
}

type orderItemRequest struct {
	ProductID uint             `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"nullable,gte=0"`
}

type storeOrderRequest struct {
	UserID uint               `json:"user_id" validate:"required"`
	Items  []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Status string             `json:"status"`
	Notes  *string            `json:"notes" validate:"nullable,max=1000"`
}

func (r storeOrderRequest) data() models.OrderData {
	data := models.OrderData{UserID: r.UserID, Status: r.Status, Notes: r.Notes}
	for _, it := range r.Items {
		data.Items = append(data.Items, models.OrderItemData{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return data
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Index lists orders newest first: GET /api/orders?page=&per_page=
func (oc *OrderController) Index(c *ctx.Context) {
	orders, page, err := oc.orders.GetPaginatedOrders(c.Context(),
		c.QueryInt("page", 1), c.QueryInt("per_page", oc.perPage))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Paginated(resource.Many(orders, resources.Order), page)
}

// Store places an order: POST /api/orders
func (oc *OrderController) Store(c *ctx.Context) {
	var req storeOrderRequest
	if !c.BindJSON(&req) {
		return
	}

	exists, err := oc.users.Exists(c.Context(), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		c.ValidationError(map[string]string{"user_id": "The selected user_id is invalid."})
		return
	}

	order, err := oc.orders.CreateOrder(c.Context(), req.data())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(resources.Order(*order))
}

// Show returns one order: GET /api/orders/{id}
func (oc *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	order, err := oc.orders.FindOrderOrFail(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.Order(*order))
}

// UpdateStatus: PATCH /api/orders/{id}/status {"status": "..."}
func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if !c.BindJSON(&req) {
		return
	}
	order, err := oc.orders.UpdateOrderStatus(c.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Message("Order status updated.", resources.Order(*order))
}

// Cancel: POST /api/orders/{id}/cancel
func (oc *OrderController) Cancel(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	order, err := oc.orders.CancelOrder(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Message("Order cancelled.", resources.Order(*order))
}

// Destroy deletes the order and restores its stock: DELETE /api/orders/{id}
func (oc *OrderController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	deleted, err := oc.orders.DeleteOrder(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Message("Order deleted.", map[string]bool{"deleted": deleted})
}

// UserOrders: GET /api/users/{id}/orders
func (oc *OrderController) UserOrders(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	exists, err := oc.users.Exists(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		c.NotFound("User not found.")
		return
	}
	orders, err := oc.orders.GetOrdersByUser(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Many(orders, resources.Order))
}
