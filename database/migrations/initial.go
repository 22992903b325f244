package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/migration"
)

func init() {
	migration.Register("20240101000000_create_users_table", &createTable{model: &models.User{}, table: "users"})
	migration.Register("20240101000001_create_products_table", &createTable{model: &models.Product{}, table: "products"})
	migration.Register("20240101000002_create_orders_table", &createTable{model: &models.Order{}, table: "orders"})
	migration.Register("20240101000003_create_order_items_table", &createTable{model: &models.OrderItem{}, table: "order_items"})
	migration.Register("20240101000004_create_user_details_table", &createTable{model: &models.UserDetail{}, table: "user_details"})
}

// createTable migrates one model and drops its table on rollback.
type createTable struct {
	model interface{}
	table string
}

func (m *createTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *createTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.table)
}
