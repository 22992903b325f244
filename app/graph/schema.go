// Package graph is the read-only GraphQL view over orders and products.
package graph

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/resources"
	gql "github.com/shashiranjanraj/orderdesk/pkg/graphql"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
	"github.com/shashiranjanraj/orderdesk/pkg/resource"
)

// OrderReader is the order side of services.OrderService.
type OrderReader interface {
	FindOrder(ctx context.Context, id uint) (*models.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
}

// ProductReader is the catalogue side of services.ProductService.
type ProductReader interface {
	List(ctx context.Context, page, perPage int, activeOnly bool) ([]models.Product, orm.Pagination, error)
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":  &graphql.Field{Type: graphql.String},
		"email": &graphql.Field{Type: graphql.String},
		"role":  &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.String, Description: "Fixed two-decimal amount."},
		"stock":       &graphql.Field{Type: graphql.Int},
		"is_active":   &graphql.Field{Type: graphql.Boolean},
		"created_at":  &graphql.Field{Type: graphql.String},
		"updated_at":  &graphql.Field{Type: graphql.String},
	},
})

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"product_id": &graphql.Field{Type: graphql.Int},
		"product":    &graphql.Field{Type: productType},
		"quantity":   &graphql.Field{Type: graphql.Int},
		"unit_price": &graphql.Field{Type: graphql.String},
		"subtotal":   &graphql.Field{Type: graphql.String},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"user_id":      &graphql.Field{Type: graphql.Int},
		"user":         &graphql.Field{Type: userType},
		"status":       &graphql.Field{Type: graphql.String},
		"total_amount": &graphql.Field{Type: graphql.String},
		"notes":        &graphql.Field{Type: graphql.String},
		"items":        &graphql.Field{Type: graphql.NewList(orderItemType)},
		"created_at":   &graphql.Field{Type: graphql.String},
		"updated_at":   &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the schema:
//
//	order(id: Int!): Order
//	orders(user_id: Int): [Order]
//	products(active: Boolean, page: Int, per_page: Int): [Product]
func NewSchema(orders OrderReader, products ProductReader) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					order, err := orders.FindOrder(p.Context, uint(id))
					if err != nil || order == nil {
						return nil, err
					}
					return resources.Order(*order), nil
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"user_id": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var (
						list []models.Order
						err  error
					)
					if userID, ok := p.Args["user_id"].(int); ok {
						list, err = orders.GetOrdersByUser(p.Context, uint(userID))
					} else {
						list, err = orders.GetAllOrders(p.Context)
					}
					if err != nil {
						return nil, err
					}
					return resource.Many(list, resources.Order), nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"active":   &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"per_page": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: orm.MaxPerPage},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					active, _ := p.Args["active"].(bool)
					page, _ := p.Args["page"].(int)
					perPage, _ := p.Args["per_page"].(int)
					list, _, err := products.List(p.Context, page, perPage, active)
					if err != nil {
						return nil, err
					}
					return resource.Many(list, resources.Product), nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}
