// Package kernel builds the HTTP handler: global middleware, operational
// endpoints and the API routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/orderdesk/app/controllers"
	"github.com/shashiranjanraj/orderdesk/app/graph"
	"github.com/shashiranjanraj/orderdesk/app/routes"
	"github.com/shashiranjanraj/orderdesk/internal/app"
	"github.com/shashiranjanraj/orderdesk/pkg/graphql"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/middleware"
	"github.com/shashiranjanraj/orderdesk/pkg/response"
	"github.com/shashiranjanraj/orderdesk/pkg/router"
)

// New returns the router with every route mounted. limiter may be nil to
// disable rate limiting.
func New(a *app.App, limiter *middleware.RateLimiter) (*router.Router, error) {
	schema, err := graph.NewSchema(a.Orders, a.Products)
	if err != nil {
		return nil, err
	}

	r := router.New()

	// Outermost first: metrics see total latency, recovery sits outside
	// everything that can panic, request ids exist before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", healthz(a))

	routes.RegisterAPI(r, routes.Handlers{
		Auth:     controllers.NewAuthController(a.Auth),
		Orders:   controllers.NewOrderController(a.Orders, a.Users, a.PerPage),
		Products: controllers.NewProductController(a.Products, a.PerPage),
		Users:    controllers.NewUserController(a.Accounts, a.PerPage),
		GraphQL:  graphql.Handler(schema),
		Feed:     a.Hub,
	})
	return r, nil
}

func healthz(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := a.DB.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			response.ErrorWithData(w, http.StatusServiceUnavailable, "Database unavailable.",
				map[string]string{"database": "down"})
			return
		}
		response.Success(w, map[string]interface{}{
			"database":   "up",
			"ws_clients": a.Hub.ClientCount(),
		})
	}
}
