// Package server runs the HTTP API and the gRPC health endpoint under one
// lifecycle: both start together and both drain when the context ends or a
// SIGINT/SIGTERM arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/orderdesk/config"
	"github.com/shashiranjanraj/orderdesk/internal/app"
	"github.com/shashiranjanraj/orderdesk/internal/kernel"
	"github.com/shashiranjanraj/orderdesk/pkg/grpc"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

// Addrs are the listen addresses.
type Addrs struct {
	HTTP string
	GRPC string
}

// DefaultAddrs reads APP_PORT and GRPC_PORT.
func DefaultAddrs() Addrs {
	return Addrs{
		HTTP: ":" + config.AppPort(),
		GRPC: ":" + config.GRPCPort(),
	}
}

// Start serves until SIGINT/SIGTERM.
func Start(a *app.App, addrs Addrs) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Run(ctx, a, addrs)
}

// Run binds both addresses and serves until ctx is done or either server
// fails.
func Run(ctx context.Context, a *app.App, addrs Addrs) error {
	httpLis, err := net.Listen("tcp", addrs.HTTP)
	if err != nil {
		return fmt.Errorf("server: listen http %s: %w", addrs.HTTP, err)
	}
	grpcLis, err := grpc.Listen(addrs.GRPC)
	if err != nil {
		httpLis.Close()
		return err
	}
	return Serve(ctx, a, httpLis, grpcLis)
}

// Serve runs on already-bound listeners.
func Serve(ctx context.Context, a *app.App, httpLis, grpcLis net.Listener) error {
	limiter := middleware.NewRateLimiter(config.RateLimit(), time.Minute)
	r, err := kernel.New(a, limiter)
	if err != nil {
		httpLis.Close()
		grpcLis.Close()
		return fmt.Errorf("server: build routes: %w", err)
	}

	srv := &http.Server{
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	health := grpc.New()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		limiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("http: listening", "addr", httpLis.Addr().String())
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return health.Serve(gctx, grpcLis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server: shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: http shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("server: stopped")
	return err
}
