package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
)

// ProductRepository reads products and owns every stock mutation.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) query(ctx context.Context) *orm.Query {
	return orm.Use(r.db).WithContext(ctx).Model(&models.Product{})
}

// FindByID returns the product or a NotFoundError.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.query(ctx).Where("id = ?", id).First(&product); err != nil {
		return nil, lookupErr("product", id, "find product", err)
	}
	return &product, nil
}

// Paginate lists products by name.
func (r *ProductRepository) Paginate(ctx context.Context, page, perPage int, activeOnly bool) ([]models.Product, orm.Pagination, error) {
	q := r.query(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var products []models.Product
	p, err := q.Order("name").Order("id").GetWithPagination(&products, page, perPage)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Persistence("list products", err)
	}
	return products, p, nil
}

// Active returns every active product by name.
func (r *ProductRepository) Active(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.query(ctx).Where("is_active = ?", true).Order("name").Get(&products); err != nil {
		return nil, apperr.Persistence("list active products", err)
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, data models.ProductData) (*models.Product, error) {
	product := models.Product{
		Name:        data.Name,
		Description: data.Description,
		Price:       models.Money(data.Price),
		Stock:       data.Stock,
		IsActive:    data.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, apperr.Persistence("create product", err)
	}
	return &product, nil
}

// Update changes catalogue fields. Stock only moves through IncreaseStock
// and DecreaseStock.
func (r *ProductRepository) Update(ctx context.Context, id uint, data models.ProductData) (*models.Product, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        data.Name,
		"description": data.Description,
		"price":       models.Money(data.Price),
		"is_active":   data.IsActive,
	}).Error
	if err != nil {
		return nil, apperr.Persistence("update product", err)
	}
	return r.FindByID(ctx, id)
}

// Delete removes a product that no order line references.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return lookupErr("product", id, "find product", err)
		}

		used, err := orm.Use(tx).Model(&models.OrderItem{}).Where("product_id = ?", id).Exists()
		if err != nil {
			return apperr.Persistence("check product usage", err)
		}
		if used {
			return &apperr.ConflictError{Entity: "product", ID: id, Reason: "referenced by existing orders"}
		}

		if err := tx.Delete(&models.Product{}, id).Error; err != nil {
			return apperr.Persistence("delete product", err)
		}
		return nil
	})
}

// DecreaseStock takes quantity units in a single conditional UPDATE, so two
// concurrent callers can never drive stock below zero. When no row matches,
// the product is re-read to tell a missing product from a short one.
func (r *ProductRepository) DecreaseStock(ctx context.Context, id uint, quantity int) error {
	if quantity < 0 {
		return apperr.Invalid("quantity", "must not be negative")
	}

	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return apperr.Persistence("decrease stock", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	product, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return &apperr.InsufficientStockError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Available:   product.Stock,
		Requested:   quantity,
	}
}

// IncreaseStock returns quantity units to the product.
func (r *ProductRepository) IncreaseStock(ctx context.Context, id uint, quantity int) error {
	if quantity < 0 {
		return apperr.Invalid("quantity", "must not be negative")
	}

	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return apperr.Persistence("increase stock", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}
