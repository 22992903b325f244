package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
)

// Transaction runs fn inside a transaction bound to ctx. A nil return
// commits; an error or a panic rolls back, and the panic is re-raised after
// the rollback. Exactly one of commit or rollback is attempted.
//
// fn must do all of its work through tx. Using the outer handle inside fn
// escapes the transaction and, on a single-connection pool, blocks forever.
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) (err error) {
	defer metrics.ObserveDBQuery("transaction", time.Now())

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("database: begin: %w", tx.Error)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		tx.Rollback()
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		finished = true
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	finished = true
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("database: commit: %w", err)
	}
	return nil
}
