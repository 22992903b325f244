package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/event"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
)

// Order lifecycle event names.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
	EventStockRejected      = "order.stock_rejected"
)

// OrderCreated is the payload of EventOrderCreated.
type OrderCreated struct {
	Order *models.Order
}

// OrderStatusChanged is the payload of EventOrderStatusChanged.
type OrderStatusChanged struct {
	Order    *models.Order
	Previous string
}

// OrderDeleted is the payload of EventOrderDeleted. Order is the snapshot
// taken before removal; its items are the quantities returned to stock.
type OrderDeleted struct {
	Order *models.Order
}

// StockRejected is the payload of EventStockRejected.
type StockRejected struct {
	UserID uint
	Err    *apperr.InsufficientStockError
}

// OrderStore is the persistence the workflow needs.
type OrderStore interface {
	Create(ctx context.Context, data models.OrderData) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, string, error)
	Delete(ctx context.Context, id uint) (*models.Order, error)
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	Paginate(ctx context.Context, page, perPage int) ([]models.Order, orm.Pagination, error)
	All(ctx context.Context) ([]models.Order, error)
	RecalculateTotal(ctx context.Context, id uint) (*models.Order, error)
}

// ProductFinder resolves products for the stock pre-check.
type ProductFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
}

// Cache is the read-through cache for single orders. Misses and write
// failures are never surfaced to callers.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// OrderService runs the order fulfilment workflow: it validates input and
// stock, then delegates to the store, whose transactions keep orders, lines
// and stock consistent.
type OrderService struct {
	orders   OrderStore
	products ProductFinder
	events   *event.Dispatcher
	cache    Cache
	cacheTTL time.Duration
}

// NewOrderService wires the workflow. events and cache may be nil.
func NewOrderService(orders OrderStore, products ProductFinder, events *event.Dispatcher, cache Cache, cacheTTL time.Duration) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		events:   events,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func orderKey(id uint) string { return fmt.Sprintf("orders:%d", id) }

// CreateOrder checks every requested product for stock before anything is
// written, then creates the order. Quantities for the same product are
// summed for the check.
func (s *OrderService) CreateOrder(ctx context.Context, data models.OrderData) (*models.Order, error) {
	if err := validateOrderData(&data); err != nil {
		return nil, err
	}

	if err := s.ValidateStockAvailability(ctx, data); err != nil {
		return nil, s.rejected(ctx, data.UserID, err)
	}

	order, err := s.orders.Create(ctx, data)
	if err != nil {
		return nil, s.rejected(ctx, data.UserID, err)
	}

	logger.WithCtx(ctx).Info("order created",
		"order_id", order.ID,
		"user_id", order.UserID,
		"items", len(order.Items),
		"total_amount", models.FormatMoney(order.TotalAmount),
	)
	s.events.Fire(ctx, EventOrderCreated, OrderCreated{Order: order})
	return order, nil
}

// ValidateStockAvailability fails with NotFound for an unknown product or
// InsufficientStock for the first product that cannot cover its quantity.
func (s *OrderService) ValidateStockAvailability(ctx context.Context, data models.OrderData) error {
	ids, requested := data.QuantitiesByProduct()
	for _, id := range ids {
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !product.HasStock(requested[id]) {
			return &apperr.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   requested[id],
			}
		}
	}
	return nil
}

func (s *OrderService) rejected(ctx context.Context, userID uint, err error) error {
	var stock *apperr.InsufficientStockError
	if errors.As(err, &stock) {
		logger.WithCtx(ctx).Warn("order rejected: insufficient stock",
			"user_id", userID,
			"product_id", stock.ProductID,
			"available", stock.Available,
			"requested", stock.Requested,
		)
		s.events.Fire(ctx, EventStockRejected, StockRejected{UserID: userID, Err: stock})
	}
	return err
}

// UpdateOrderStatus moves an order to any valid status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.IsValidStatus(status) {
		return nil, &apperr.InvalidStatusError{Status: status, Valid: models.Statuses()}
	}

	order, previous, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.forget(ctx, id)

	logger.WithCtx(ctx).Info("order status changed", "order_id", id, "from", previous, "to", status)
	s.events.Fire(ctx, EventOrderStatusChanged, OrderStatusChanged{Order: order, Previous: previous})
	return order, nil
}

// CancelOrder sets the status to cancelled. Stock is not restored; only
// DeleteOrder returns quantities.
func (s *OrderService) CancelOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.UpdateOrderStatus(ctx, id, models.StatusCancelled)
}

// DeleteOrder removes the order and returns its quantities to stock.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.orders.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	s.forget(ctx, id)

	logger.WithCtx(ctx).Info("order deleted", "order_id", id, "restored_lines", len(deleted.Items))
	s.events.Fire(ctx, EventOrderDeleted, OrderDeleted{Order: deleted})
	return true, nil
}

// FindOrder returns the order, from cache when possible, or nil when it
// does not exist.
func (s *OrderService) FindOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.FindOrderOrFail(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

// FindOrderOrFail is FindOrder with a NotFoundError for a missing order.
func (s *OrderService) FindOrderOrFail(ctx context.Context, id uint) (*models.Order, error) {
	var cached models.Order
	if s.cache != nil && s.cache.Get(ctx, orderKey(id), &cached) {
		return &cached, nil
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, orderKey(id), order, s.cacheTTL); err != nil {
			logger.WithCtx(ctx).Warn("order cache write failed", "order_id", id, "error", err)
		}
	}
	return order, nil
}

// GetOrdersByUser lists a user's orders, newest first.
func (s *OrderService) GetOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// GetPaginatedOrders lists orders newest first.
func (s *OrderService) GetPaginatedOrders(ctx context.Context, page, perPage int) ([]models.Order, orm.Pagination, error) {
	return s.orders.Paginate(ctx, page, perPage)
}

// GetAllOrders lists every order newest first.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.All(ctx)
}

// RecalculateTotal rewrites the stored total from the order's lines.
func (s *OrderService) RecalculateTotal(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orders.RecalculateTotal(ctx, id)
	if err != nil {
		return nil, err
	}
	s.forget(ctx, id)
	return order, nil
}

func (s *OrderService) forget(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, orderKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("order cache invalidation failed", "order_id", id, "error", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}

func validateOrderData(data *models.OrderData) error {
	if data.UserID == 0 {
		return apperr.Invalid("user_id", "is required")
	}
	if len(data.Items) == 0 {
		return apperr.Invalid("items", "at least one item is required")
	}
	for i, item := range data.Items {
		if item.ProductID == 0 {
			return apperr.Invalid(fmt.Sprintf("items.%d.product_id", i), "is required")
		}
		if item.Quantity < 1 {
			return apperr.Invalid(fmt.Sprintf("items.%d.quantity", i), "must be at least 1")
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return apperr.Invalid(fmt.Sprintf("items.%d.unit_price", i), "must not be negative")
		}
	}

	if data.Status == "" {
		data.Status = models.StatusPending
	}
	if !models.IsValidStatus(data.Status) {
		return &apperr.InvalidStatusError{Status: data.Status, Valid: models.Statuses()}
	}
	return nil
}
