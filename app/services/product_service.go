package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
)

// ProductService manages the catalogue and manual stock adjustments.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(products *repositories.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) List(ctx context.Context, page, perPage int, activeOnly bool) ([]models.Product, orm.Pagination, error) {
	return s.products.Paginate(ctx, page, perPage, activeOnly)
}

func (s *ProductService) Active(ctx context.Context) ([]models.Product, error) {
	return s.products.Active(ctx)
}

func (s *ProductService) Find(ctx context.Context, id uint) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, data models.ProductData) (*models.Product, error) {
	if err := validateProductData(data); err != nil {
		return nil, err
	}
	if data.Stock < 0 {
		return nil, apperr.Invalid("stock", "must not be negative")
	}
	return s.products.Create(ctx, data)
}

func (s *ProductService) Update(ctx context.Context, id uint, data models.ProductData) (*models.Product, error) {
	if err := validateProductData(data); err != nil {
		return nil, err
	}
	return s.products.Update(ctx, id, data)
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	return s.products.Delete(ctx, id)
}

// HasStock reports whether the product can cover quantity.
func (s *ProductService) HasStock(ctx context.Context, id uint, quantity int) (bool, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return product.HasStock(quantity), nil
}

// AdjustStock applies a signed delta: positive restocks, negative takes
// units out under the same non-negative guard as order placement.
func (s *ProductService) AdjustStock(ctx context.Context, id uint, delta int) (*models.Product, error) {
	var err error
	switch {
	case delta > 0:
		err = s.products.IncreaseStock(ctx, id, delta)
	case delta < 0:
		err = s.products.DecreaseStock(ctx, id, -delta)
	default:
		return s.products.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("stock adjusted", "product_id", id, "delta", delta)
	return s.products.FindByID(ctx, id)
}

func validateProductData(data models.ProductData) error {
	if strings.TrimSpace(data.Name) == "" {
		return apperr.Invalid("name", "is required")
	}
	if data.Price.IsNegative() {
		return apperr.Invalid("price", "must not be negative")
	}
	return nil
}
