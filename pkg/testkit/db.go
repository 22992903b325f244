// Package testkit holds shared test fixtures: an isolated in-memory database
// per test and helpers for driving the HTTP API.
package testkit

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/migration"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database that lives for the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("testkit: open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewMigratedDB opens a database and applies every registered migration.
// The caller's package must import the migrations package for its init side
// effects.
func NewMigratedDB(t testing.TB) *gorm.DB {
	t.Helper()

	db := NewDB(t)
	if _, err := migration.New(db).Run(); err != nil {
		t.Fatalf("testkit: migrate: %v", err)
	}
	return db
}
