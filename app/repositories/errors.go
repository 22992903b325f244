package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
)

// lookupErr turns gorm's record-not-found into a typed NotFoundError and
// wraps anything else as a persistence failure.
func lookupErr(entity string, id uint, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return apperr.Persistence(op, err)
}
