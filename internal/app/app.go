// Package app assembles the object graph: infrastructure handles first,
// then repositories, services and event listeners, each receiving its
// dependencies through its constructor.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/listeners"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/config"
	"github.com/shashiranjanraj/orderdesk/pkg/cache"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/event"
	"github.com/shashiranjanraj/orderdesk/pkg/eventbus"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/ws"
)

// Options carries the runtime settings Build needs.
type Options struct {
	Cache    *cache.Store
	CacheTTL time.Duration
	PerPage  int
	// Publisher, when set, receives every order event.
	Publisher eventbus.Publisher
}

// App owns every long-lived component.
type App struct {
	DB     *gorm.DB
	Cache  *cache.Store
	Events *event.Dispatcher
	Hub    *ws.Hub

	Users    *repositories.UserRepository
	Orders   *services.OrderService
	Products *services.ProductService
	Auth     *services.AuthService
	Accounts *services.UserService

	PerPage int

	broker  *listeners.Broker
	closers []func() error
}

// Build wires repositories, services and listeners over db.
func Build(db *gorm.DB, opts Options) *App {
	if opts.Cache == nil {
		opts.Cache = cache.New(nil, "")
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 15
	}

	events := event.NewDispatcher()
	hub := ws.NewHub()

	users := repositories.NewUserRepository(db)
	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db, products)

	a := &App{
		DB:       db,
		Cache:    opts.Cache,
		Events:   events,
		Hub:      hub,
		Users:    users,
		Orders:   services.NewOrderService(orders, products, events, opts.Cache, opts.CacheTTL),
		Products: services.NewProductService(products),
		Auth:     services.NewAuthService(users),
		Accounts: services.NewUserService(users),
		PerPage:  opts.PerPage,
	}

	listeners.RegisterLog(events)
	listeners.RegisterMetrics(events)
	listeners.RegisterBroadcast(events, hub)
	if opts.Publisher != nil {
		a.broker = listeners.RegisterBroker(events, opts.Publisher)
	}
	return a
}

// New loads configuration and connects every configured backend. Redis,
// RabbitMQ and the MongoDB log sink are optional: when they are
// unreachable the app logs a warning and runs without them.
func New(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}

	var closers []func() error
	var extra []slog.Handler
	if uri := config.LogMongoURI(); uri != "" {
		mh, err := logger.NewMongoHandler(ctx, uri, config.LogMongoDatabase(), config.LogMongoCollection(), slog.LevelInfo)
		if err != nil {
			logger.Warn("log sink disabled", "error", err)
		} else {
			extra = append(extra, mh)
			closers = append(closers, func() error { mh.Close(); return nil })
		}
	}
	logger.Setup(config.IsProduction(), extra...)

	db, err := database.Open(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	closers = append(closers, func() error { return database.Close(db) })

	store := cache.New(nil, "")
	if config.RedisEnabled() {
		s, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword(), "orderdesk:")
		if err != nil {
			logger.Warn("cache disabled", "error", err)
		} else {
			store = s
			closers = append(closers, s.Close)
		}
	}

	var publisher eventbus.Publisher
	if url := config.RabbitMQURL(); url != "" {
		bus, err := eventbus.Dial(url, config.RabbitMQExchange())
		if err != nil {
			logger.Warn("event bus disabled", "error", err)
		} else {
			publisher = bus
			closers = append(closers, bus.Close)
		}
	}

	a := Build(db, Options{
		Cache:     store,
		CacheTTL:  config.OrderCacheTTL(),
		PerPage:   config.PerPage(),
		Publisher: publisher,
	})
	a.closers = closers
	return a, nil
}

// Close waits for in-flight broker publishes, then releases connections in
// reverse order of acquisition.
func (a *App) Close() error {
	if a.broker != nil {
		a.broker.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
