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

// Catalogue is the part of services.ProductService the controller uses.
type Catalogue interface {
	List(ctx context.Context, page, perPage int, activeOnly bool) ([]models.Product, orm.Pagination, error)
	Find(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, data models.ProductData) (*models.Product, error)
	Update(ctx context.Context, id uint, data models.ProductData) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
	AdjustStock(ctx context.Context, id uint, delta int) (*models.Product, error)
}

type ProductController struct {
	products Catalogue
	perPage  int
}

func NewProductController(products Catalogue, perPage int) *ProductController {
	return &ProductController{products: products, perPage: perPage}
}

type productRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description" validate:"nullable,max=5000"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Stock       int              `json:"stock" validate:"gte=0"`
	IsActive    *bool            `json:"is_active"`
}

func (r productRequest) data() models.ProductData {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return models.ProductData{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Stock:       r.Stock,
		IsActive:    active,
	}
}

type stockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// Index: GET /api/products?page=&per_page=&active=1
func (pc *ProductController) Index(c *ctx.Context) {
	products, page, err := pc.products.List(c.Context(),
		c.QueryInt("page", 1), c.QueryInt("per_page", pc.perPage), c.QueryBool("active"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Paginated(resource.Many(products, resources.Product), page)
}

// Store: POST /api/products
func (pc *ProductController) Store(c *ctx.Context) {
	var req productRequest
	if !c.BindJSON(&req) {
		return
	}
	product, err := pc.products.Create(c.Context(), req.data())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(resources.Product(*product))
}

// Show: GET /api/products/{id}
func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	product, err := pc.products.Find(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.Product(*product))
}

// Update replaces the catalogue fields; stock only moves through
// AdjustStock and orders. PUT /api/products/{id}
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var req productRequest
	if !c.BindJSON(&req) {
		return
	}
	product, err := pc.products.Update(c.Context(), id, req.data())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.Product(*product))
}

// Destroy: DELETE /api/products/{id}
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := pc.products.Delete(c.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Message("Product deleted.", nil)
}

// AdjustStock: POST /api/products/{id}/stock {"delta": -2}
func (pc *ProductController) AdjustStock(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var req stockRequest
	if !c.BindJSON(&req) {
		return
	}
	product, err := pc.products.AdjustStock(c.Context(), id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.Product(*product))
}
