package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User owns orders and an optional contact profile.
type User struct {
	gorm.Model
	Name     string      `gorm:"size:255;not null" json:"name"`
	Email    string      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string      `gorm:"size:255;not null" json:"-"`
	Role     string      `gorm:"size:50;default:customer" json:"role"`
	Detail   *UserDetail `gorm:"constraint:OnDelete:CASCADE" json:"detail,omitempty"`
}

// UserDetail holds contact and address fields. Every field is optional.
type UserDetail struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone       *string    `gorm:"size:20" json:"phone"`
	Address     *string    `gorm:"size:255" json:"address"`
	City        *string    `gorm:"size:100" json:"city"`
	State       *string    `gorm:"size:100" json:"state"`
	PostalCode  *string    `gorm:"size:20" json:"postal_code"`
	Country     *string    `gorm:"size:100" json:"country"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserData is the input for creating or updating a user. A nil Password
// keeps the stored hash on update; a nil Detail leaves the profile alone.
type UserData struct {
	Name     string
	Email    string
	Password *string
	Detail   *UserDetailData
}

// UserDetailData is the profile part of UserData. Blank strings count as
// absent.
type UserDetailData struct {
	Phone       *string
	Address     *string
	City        *string
	State       *string
	PostalCode  *string
	Country     *string
	DateOfBirth *time.Time
}

// HasData reports whether any profile field carries a value.
func (d *UserDetailData) HasData() bool {
	if d == nil {
		return false
	}
	for _, s := range []*string{d.Phone, d.Address, d.City, d.State, d.PostalCode, d.Country} {
		if s != nil && strings.TrimSpace(*s) != "" {
			return true
		}
	}
	return d.DateOfBirth != nil
}

// Apply copies the non-blank fields onto detail.
func (d *UserDetailData) Apply(detail *UserDetail) {
	if d == nil {
		return
	}
	set := func(dst **string, s *string) {
		if s != nil && strings.TrimSpace(*s) != "" {
			v := strings.TrimSpace(*s)
			*dst = &v
		}
	}
	set(&detail.Phone, d.Phone)
	set(&detail.Address, d.Address)
	set(&detail.City, d.City)
	set(&detail.State, d.State)
	set(&detail.PostalCode, d.PostalCode)
	set(&detail.Country, d.Country)
	if d.DateOfBirth != nil {
		dob := *d.DateOfBirth
		detail.DateOfBirth = &dob
	}
}
