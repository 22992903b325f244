package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
)

// OrderRepository persists orders and their lines. Create and Delete move
// stock in the same transaction as the order rows.
type OrderRepository struct {
	db       *gorm.DB
	products *ProductRepository
}

func NewOrderRepository(db *gorm.DB, products *ProductRepository) *OrderRepository {
	return &OrderRepository{db: db, products: products}
}

// withRelations loads the owner and every line with its product.
func withRelations(q *orm.Query) *orm.Query {
	return q.
		Preload("User").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("Items.Product")
}

func (r *OrderRepository) query(ctx context.Context, db *gorm.DB) *orm.Query {
	return orm.Use(db).WithContext(ctx).Model(&models.Order{})
}

// Create writes the order, its lines and the stock decrements as one unit.
// Prices come from the request when given and from the product otherwise.
// Any failure, including a concurrent order taking the last units, rolls
// everything back.
func (r *OrderRepository) Create(ctx context.Context, data models.OrderData) (*models.Order, error) {
	if data.Status == "" {
		data.Status = models.StatusPending
	}

	var orderID uint
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		products := r.products.WithTx(tx)

		ids, requested := data.QuantitiesByProduct()
		catalogue := make(map[uint]*models.Product, len(ids))
		for _, id := range ids {
			product, err := products.FindByID(ctx, id)
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
			catalogue[id] = product
		}

		items := make([]models.OrderItem, 0, len(data.Items))
		total := decimal.Zero
		for _, in := range data.Items {
			price := catalogue[in.ProductID].Price
			if in.UnitPrice != nil {
				price = *in.UnitPrice
			}
			price = models.Money(price)

			item := models.OrderItem{
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				UnitPrice: price,
				Subtotal:  models.LineSubtotal(in.Quantity, price),
			}
			total = total.Add(item.Subtotal)
			items = append(items, item)
		}

		order := models.Order{
			UserID:      data.UserID,
			Status:      data.Status,
			TotalAmount: total,
			Notes:       data.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return apperr.Persistence("create order", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return apperr.Persistence("create order item", err)
			}
			if err := products.DecreaseStock(ctx, items[i].ProductID, items[i].Quantity); err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, orderID)
}

// UpdateStatus sets a new status and returns the refreshed order together
// with the status it replaced. Stock is not touched.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, string, error) {
	var previous string
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Select("id", "status").First(&order, id).Error; err != nil {
			return lookupErr("order", id, "find order", err)
		}
		previous = order.Status

		if err := tx.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error; err != nil {
			return apperr.Persistence("update order status", err)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	order, err := r.FindByID(ctx, id)
	return order, previous, err
}

// Delete restores every line's quantity to its product, then removes the
// lines and the order, all in one transaction. The deleted order is returned
// as it was before removal.
func (r *OrderRepository) Delete(ctx context.Context, id uint) (*models.Order, error) {
	var deleted models.Order
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := withRelations(r.query(ctx, tx)).Where("id = ?", id).First(&deleted); err != nil {
			return lookupErr("order", id, "find order", err)
		}

		products := r.products.WithTx(tx)
		for _, item := range deleted.Items {
			if err := products.IncreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return apperr.Persistence("delete order items", err)
		}
		if err := tx.Delete(&models.Order{}, id).Error; err != nil {
			return apperr.Persistence("delete order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// FindByID returns the order with its user and lines, or a NotFoundError.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := withRelations(r.query(ctx, r.db)).Where("id = ?", id).First(&order); err != nil {
		return nil, lookupErr("order", id, "find order", err)
	}
	return &order, nil
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := withRelations(r.query(ctx, r.db)).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Get(&orders)
	if err != nil {
		return nil, apperr.Persistence("list user orders", err)
	}
	return orders, nil
}

// Paginate lists orders, newest first.
func (r *OrderRepository) Paginate(ctx context.Context, page, perPage int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	p, err := withRelations(r.query(ctx, r.db)).
		Order("created_at desc").Order("id desc").
		GetWithPagination(&orders, page, perPage)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Persistence("list orders", err)
	}
	return orders, p, nil
}

// All returns every order, newest first.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := withRelations(r.query(ctx, r.db)).
		Order("created_at desc").Order("id desc").
		Get(&orders)
	if err != nil {
		return nil, apperr.Persistence("list orders", err)
	}
	return orders, nil
}

// RecalculateTotal recomputes total_amount from the stored line subtotals.
func (r *OrderRepository) RecalculateTotal(ctx context.Context, id uint) (*models.Order, error) {
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, id).Error; err != nil {
			return lookupErr("order", id, "find order", err)
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", id).
			Update("total_amount", order.CalculateTotal()).Error; err != nil {
			return apperr.Persistence("recalculate total", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}
