// Package resources defines the public shape of every model. HTTP
// responses and GraphQL results share these transformers, so money is
// always rendered as a fixed two-decimal string.
package resources

import (
	"time"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/resource"
)

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func User(u models.User) resource.Map {
	return resource.Map{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"detail":     resource.Ptr(u.Detail, UserDetail),
		"created_at": timestamp(u.CreatedAt),
		"updated_at": timestamp(u.UpdatedAt),
	}
}

func UserDetail(d models.UserDetail) resource.Map {
	var dob *string
	if d.DateOfBirth != nil {
		s := d.DateOfBirth.Format("2006-01-02")
		dob = &s
	}
	return resource.Map{
		"phone":         d.Phone,
		"address":       d.Address,
		"city":          d.City,
		"state":         d.State,
		"postal_code":   d.PostalCode,
		"country":       d.Country,
		"date_of_birth": dob,
	}
}

func Product(p models.Product) resource.Map {
	return resource.Map{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       models.FormatMoney(p.Price),
		"stock":       p.Stock,
		"is_active":   p.IsActive,
		"created_at":  timestamp(p.CreatedAt),
		"updated_at":  timestamp(p.UpdatedAt),
	}
}

func OrderItem(it models.OrderItem) resource.Map {
	return resource.Map{
		"id":         it.ID,
		"product_id": it.ProductID,
		"product":    resource.Ptr(it.Product, Product),
		"quantity":   it.Quantity,
		"unit_price": models.FormatMoney(it.UnitPrice),
		"subtotal":   models.FormatMoney(it.Subtotal),
	}
}

func Order(o models.Order) resource.Map {
	return resource.Map{
		"id":           o.ID,
		"user_id":      o.UserID,
		"user":         resource.Ptr(o.User, User),
		"status":       o.Status,
		"total_amount": models.FormatMoney(o.TotalAmount),
		"notes":        o.Notes,
		"items":        resource.Many(o.Items, OrderItem),
		"created_at":   timestamp(o.CreatedAt),
		"updated_at":   timestamp(o.UpdatedAt),
	}
}
