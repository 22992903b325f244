package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/auth"
)

// DemoEmail and DemoPassword log in the seeded account.
const (
	DemoEmail    = "demo@orderdesk.test"
	DemoPassword = "password123"
)

func init() {
	Register("users", seedUsers)
	Register("products", seedProducts)
}

func seedUsers(db *gorm.DB) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	user := models.User{Name: "Demo Customer", Email: DemoEmail, Password: hash, Role: "customer"}
	return db.Where(models.User{Email: DemoEmail}).FirstOrCreate(&user).Error
}

var demoProducts = []struct {
	name  string
	desc  string
	price string
	stock int
}{
	{"Mechanical Keyboard", "Tenkeyless, brown switches", "89.90", 25},
	{"USB-C Hub", "7-in-1 with HDMI and card reader", "34.50", 40},
	{"27\" Monitor", "1440p IPS panel", "279.00", 8},
	{"Laptop Stand", "Aluminium, adjustable height", "45.00", 0},
}

func seedProducts(db *gorm.DB) error {
	for _, p := range demoProducts {
		product := models.Product{
			Name:        p.name,
			Description: p.desc,
			Price:       decimal.RequireFromString(p.price),
			Stock:       p.stock,
			IsActive:    true,
		}
		if err := db.Where(models.Product{Name: p.name}).FirstOrCreate(&product).Error; err != nil {
			return err
		}
	}
	return nil
}
