package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/internal/app"
	"github.com/shashiranjanraj/orderdesk/pkg/storage"
)

var (
	exportDisk string
	exportPath string
)

func init() {
	exportCmd.Flags().StringVar(&exportDisk, "disk", "", "storage disk: local or s3 (default STORAGE_DISK)")
	exportCmd.Flags().StringVar(&exportPath, "path", "", "object path (default exports/orders-<timestamp>.csv)")
}

// orderdesk orders:recalculate [id]
var recalculateCmd = &cobra.Command{
	Use:   "orders:recalculate [id]",
	Short: "Recompute order totals from their lines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var ids []uint
		if len(args) == 1 {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			ids = append(ids, uint(id))
		} else {
			orders, err := a.Orders.GetAllOrders(cmd.Context())
			if err != nil {
				return err
			}
			for _, o := range orders {
				ids = append(ids, o.ID)
			}
		}

		for _, id := range ids {
			order, err := a.Orders.RecalculateTotal(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Order %d: %s\n", order.ID, models.FormatMoney(order.TotalAmount))
		}
		return nil
	},
}

// orderdesk orders:export
var exportCmd = &cobra.Command{
	Use:   "orders:export",
	Short: "Write every order line as CSV to a storage disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := app.New(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		disk, err := storage.Open(ctx, exportDisk)
		if err != nil {
			return err
		}
		path := exportPath
		if path == "" {
			path = fmt.Sprintf("exports/orders-%s.csv", time.Now().UTC().Format("20060102-150405"))
		}

		pr, pw := io.Pipe()
		written := make(chan int, 1)
		go func() {
			rows, err := services.ExportOrders(ctx, a.Orders, pw)
			pw.CloseWithError(err)
			written <- rows
		}()

		if err := disk.Put(ctx, path, pr); err != nil {
			pr.CloseWithError(err)
			<-written
			return err
		}
		fmt.Printf("Exported %d lines to %s\n", <-written, disk.URL(path))
		return nil
	},
}
