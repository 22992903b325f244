// Package routes mounts every endpoint on the router.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/orderdesk/app/controllers"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
	"github.com/shashiranjanraj/orderdesk/pkg/middleware"
	"github.com/shashiranjanraj/orderdesk/pkg/router"
)

// Handlers are the endpoints RegisterAPI mounts.
type Handlers struct {
	Auth     *controllers.AuthController
	Orders   *controllers.OrderController
	Products *controllers.ProductController
	Users    *controllers.UserController
	GraphQL  http.Handler
	Feed     http.Handler
}

func RegisterAPI(r *router.Router, h Handlers) {
	api := r.Group("/api")
	api.Post("/register", "auth.register", ctx.Wrap(h.Auth.Register))
	api.Post("/login", "auth.login", ctx.Wrap(h.Auth.Login))

	protected := api.Group("", middleware.Auth)

	products := protected.Group("/products")
	products.Get("/", "products.index", ctx.Wrap(h.Products.Index))
	products.Post("/", "products.store", ctx.Wrap(h.Products.Store))
	products.Get("/{id}", "products.show", ctx.Wrap(h.Products.Show))
	products.Put("/{id}", "products.update", ctx.Wrap(h.Products.Update))
	products.Delete("/{id}", "products.destroy", ctx.Wrap(h.Products.Destroy))
	products.Post("/{id}/stock", "products.stock", ctx.Wrap(h.Products.AdjustStock))

	orders := protected.Group("/orders")
	orders.Get("/", "orders.index", ctx.Wrap(h.Orders.Index))
	orders.Post("/", "orders.store", ctx.Wrap(h.Orders.Store))
	orders.Get("/{id}", "orders.show", ctx.Wrap(h.Orders.Show))
	orders.Patch("/{id}/status", "orders.status", ctx.Wrap(h.Orders.UpdateStatus))
	orders.Post("/{id}/cancel", "orders.cancel", ctx.Wrap(h.Orders.Cancel))
	orders.Delete("/{id}", "orders.destroy", ctx.Wrap(h.Orders.Destroy))

	users := protected.Group("/users")
	users.Get("/", "users.index", ctx.Wrap(h.Users.Index))
	users.Post("/", "users.store", ctx.Wrap(h.Users.Store))
	users.Get("/{id}", "users.show", ctx.Wrap(h.Users.Show))
	users.Put("/{id}", "users.update", ctx.Wrap(h.Users.Update))
	users.Delete("/{id}", "users.destroy", ctx.Wrap(h.Users.Destroy))
	users.Get("/{id}/orders", "users.orders", ctx.Wrap(h.Orders.UserOrders))

	if h.GraphQL != nil {
		r.Post("/graphql", "graphql", h.GraphQL.ServeHTTP, middleware.Auth)
	}
	if h.Feed != nil {
		r.Get("/ws/orders", "ws.orders", h.Feed.ServeHTTP)
	}
}
