// Package orm wraps gorm with a small chainable query builder and
// page-based pagination.
package orm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Query is an immutable builder; every method returns a new Query.
// Preloads and ordering apply only when rows are fetched, so Count and the
// count half of GetWithPagination stay plain aggregates.
type Query struct {
	db       *gorm.DB
	preloads []preload
	orders   []interface{}
}

type preload struct {
	query string
	args  []interface{}
}

// Use starts a query on db, which may be a transaction handle.
func Use(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) with(db *gorm.DB) *Query {
	return &Query{db: db, preloads: q.preloads, orders: q.orders}
}

func (q *Query) WithContext(ctx context.Context) *Query {
	return q.with(q.db.WithContext(ctx))
}

func (q *Query) Model(v interface{}) *Query {
	return q.with(q.db.Model(v))
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return q.with(q.db.Where(query, args...))
}

func (q *Query) Preload(query string, args ...interface{}) *Query {
	next := q.with(q.db)
	next.preloads = append(append([]preload{}, q.preloads...), preload{query: query, args: args})
	return next
}

func (q *Query) Order(value interface{}) *Query {
	next := q.with(q.db)
	next.orders = append(append([]interface{}{}, q.orders...), value)
	return next
}

func (q *Query) fetch() *gorm.DB {
	db := q.db
	for _, p := range q.preloads {
		db = db.Preload(p.query, p.args...)
	}
	for _, o := range q.orders {
		db = db.Order(o)
	}
	return db
}

func (q *Query) Get(dest interface{}) error {
	return q.fetch().Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.fetch().First(dest).Error
}

func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Session(&gorm.Session{}).Count(&n).Error
	return n, err
}

func (q *Query) Exists() (bool, error) {
	n, err := q.Count()
	return n > 0, err
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// NormalizePage clamps page to ≥ 1 and perPage to 1..MaxPerPage, using
// DefaultPerPage when perPage is not positive.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// GetWithPagination counts the matching rows, then loads one page into dest.
// The query must have a Model set.
func (q *Query) GetWithPagination(dest interface{}, page, perPage int) (Pagination, error) {
	page, perPage = NormalizePage(page, perPage)

	var total int64
	if err := q.db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, fmt.Errorf("orm: count: %w", err)
	}

	p := Pagination{
		Page:     page,
		PerPage:  perPage,
		Total:    total,
		LastPage: int((total + int64(perPage) - 1) / int64(perPage)),
	}
	if p.LastPage == 0 {
		p.LastPage = 1
	}

	if err := q.fetch().Offset((page - 1) * perPage).Limit(perPage).Find(dest).Error; err != nil {
		return Pagination{}, fmt.Errorf("orm: page: %w", err)
	}
	return p, nil
}
