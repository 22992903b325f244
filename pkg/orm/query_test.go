package orm_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/pkg/orm"
	"github.com/shashiranjanraj/orderdesk/pkg/testkit"
)

type shelf struct {
	ID    uint `gorm:"primaryKey"`
	Books []book
}

type book struct {
	ID      uint `gorm:"primaryKey"`
	ShelfID uint
	Title   string
}

func seed(t *testing.T, n int) *gorm.DB {
	db := testkit.NewDB(t)
	require.NoError(t, db.AutoMigrate(&shelf{}, &book{}))

	s := shelf{}
	require.NoError(t, db.Create(&s).Error)
	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&book{ShelfID: s.ID, Title: fmt.Sprintf("book-%02d", i)}).Error)
	}
	return db
}

func TestNormalizePage(t *testing.T) {
	page, per := orm.NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, orm.DefaultPerPage, per)

	_, per = orm.NormalizePage(2, 1000)
	assert.Equal(t, orm.MaxPerPage, per)
}

func TestGetWithPagination(t *testing.T) {
	db := seed(t, 7)

	var books []book
	p, err := orm.Use(db).WithContext(context.Background()).
		Model(&book{}).
		Order("id desc").
		GetWithPagination(&books, 2, 3)

	require.NoError(t, err)
	assert.Equal(t, orm.Pagination{Page: 2, PerPage: 3, Total: 7, LastPage: 3}, p)
	require.Len(t, books, 3)
	assert.Equal(t, "book-04", books[0].Title)
}

func TestPaginationOfEmptySetHasOnePage(t *testing.T) {
	db := seed(t, 0)

	var books []book
	p, err := orm.Use(db).Model(&book{}).GetWithPagination(&books, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.LastPage)
	assert.Empty(t, books)
}

func TestPreloadIsNotAppliedToCount(t *testing.T) {
	db := seed(t, 2)

	var shelves []shelf
	q := orm.Use(db).Model(&shelf{}).Preload("Books", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") })

	n, err := q.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, q.Get(&shelves))
	require.Len(t, shelves, 1)
	assert.Len(t, shelves[0].Books, 2)

	ok, err := orm.Use(db).Model(&book{}).Where("title = ?", "missing").Exists()
	require.NoError(t, err)
	assert.False(t, ok)
}
