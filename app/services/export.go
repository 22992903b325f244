package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shashiranjanraj/orderdesk/app/models"
)

// ExportHeader is the first CSV row written by ExportOrders.
var ExportHeader = []string{
	"order_id", "user_id", "status", "product_id", "quantity",
	"unit_price", "subtotal", "order_total", "created_at",
}

// OrderLister returns every order with its items loaded.
type OrderLister interface {
	GetAllOrders(ctx context.Context) ([]models.Order, error)
}

// ExportOrders writes one CSV row per order line, newest order first, and
// returns the number of lines written. Orders without lines are skipped.
func ExportOrders(ctx context.Context, orders OrderLister, w io.Writer) (int, error) {
	list, err := orders.GetAllOrders(ctx)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, err
	}

	rows := 0
	for _, o := range list {
		for _, it := range o.Items {
			record := []string{
				strconv.FormatUint(uint64(o.ID), 10),
				strconv.FormatUint(uint64(o.UserID), 10),
				o.Status,
				strconv.FormatUint(uint64(it.ProductID), 10),
				strconv.Itoa(it.Quantity),
				models.FormatMoney(it.UnitPrice),
				models.FormatMoney(it.Subtotal),
				models.FormatMoney(o.TotalAmount),
				o.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := cw.Write(record); err != nil {
				return rows, err
			}
			rows++
		}
	}

	cw.Flush()
	return rows, cw.Error()
}
