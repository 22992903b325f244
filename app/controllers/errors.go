// Package controllers holds the HTTP handlers. Each controller receives
// its services through its constructor.
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

// respondError maps a service error to its HTTP answer. Anything that is
// not a known domain failure is logged and hidden behind a 500.
func respondError(c *ctx.Context, err error) {
	var (
		stock *apperr.InsufficientStockError
		inval *apperr.ValidationError
	)
	switch {
	case errors.As(err, &stock):
		c.ErrorWithData(http.StatusBadRequest, sentence(err), map[string]interface{}{
			"product_id": stock.ProductID,
			"available":  stock.Available,
			"requested":  stock.Requested,
		})
	case errors.Is(err, apperr.ErrNotFound):
		c.NotFound(sentence(err))
	case errors.As(err, &inval):
		c.ValidationError(map[string]string{inval.Field: inval.Message})
	case errors.Is(err, apperr.ErrInvalidStatus):
		c.ValidationError(map[string]string{"status": sentence(err)})
	case errors.Is(err, apperr.ErrConflict):
		c.Error(http.StatusConflict, sentence(err))
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized("Invalid credentials.")
	default:
		logger.WithCtx(c.Context()).Error("request failed",
			"method", c.R.Method,
			"path", c.R.URL.Path,
			"error", err,
		)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

// sentence capitalises an error message and ends it with a period.
func sentence(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	msg = strings.ToUpper(msg[:1]) + msg[1:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}
