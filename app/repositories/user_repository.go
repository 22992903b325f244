package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/database"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) query(ctx context.Context) *orm.Query {
	return orm.Use(r.db).WithContext(ctx).Model(&models.User{})
}

// FindByEmail looks up a user by email. A miss is reported as ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.query(ctx).Where("email = ?", email).First(&user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Persistence("find user", err)
	}
	return &user, nil
}

// FindByID looks up a user by primary key, with the profile loaded.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.query(ctx).Preload("Detail").Where("id = ?", id).First(&user); err != nil {
		return nil, lookupErr("user", id, "find user", err)
	}
	return &user, nil
}

// Exists reports whether a user with id is present.
func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	ok, err := r.query(ctx).Where("id = ?", id).Exists()
	if err != nil {
		return false, apperr.Persistence("check user", err)
	}
	return ok, nil
}

// All returns every user by id.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.query(ctx).Preload("Detail").Order("id").Get(&users); err != nil {
		return nil, apperr.Persistence("list users", err)
	}
	return users, nil
}

// Paginate lists users by id.
func (r *UserRepository) Paginate(ctx context.Context, page, perPage int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	p, err := r.query(ctx).Preload("Detail").Order("id").GetWithPagination(&users, page, perPage)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Persistence("list users", err)
	}
	return users, p, nil
}

// Create persists a new user and, when detail carries data, its profile in
// the same transaction.
func (r *UserRepository) Create(ctx context.Context, user *models.User, detail *models.UserDetailData) error {
	return database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return apperr.Persistence("create user", err)
		}
		if !detail.HasData() {
			return nil
		}

		profile := models.UserDetail{UserID: user.ID}
		detail.Apply(&profile)
		if err := tx.Create(&profile).Error; err != nil {
			return apperr.Persistence("create user detail", err)
		}
		user.Detail = &profile
		return nil
	})
}

// Update changes name and email, replaces the password hash when one is
// given and upserts the profile when data.Detail carries data.
func (r *UserRepository) Update(ctx context.Context, id uint, data models.UserData) (*models.User, error) {
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return lookupErr("user", id, "find user", err)
		}

		taken, err := orm.Use(tx).Model(&models.User{}).Where("email = ? AND id <> ?", data.Email, id).Exists()
		if err != nil {
			return apperr.Persistence("check email", err)
		}
		if taken {
			return &apperr.ConflictError{Entity: "user", ID: id, Reason: "email already registered"}
		}

		cols := map[string]interface{}{"name": data.Name, "email": data.Email}
		if data.Password != nil {
			cols["password"] = *data.Password
		}
		if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return apperr.Persistence("update user", err)
		}

		if !data.Detail.HasData() {
			return nil
		}
		profile := models.UserDetail{UserID: id}
		err = tx.Where("user_id = ?", id).First(&profile).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Persistence("load user detail", err)
		}
		data.Detail.Apply(&profile)
		if err := tx.Save(&profile).Error; err != nil {
			return apperr.Persistence("save user detail", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes the user and the profile. A user who placed orders is
// kept: orders are historical records.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return lookupErr("user", id, "find user", err)
		}

		ordered, err := orm.Use(tx).Model(&models.Order{}).Where("user_id = ?", id).Exists()
		if err != nil {
			return apperr.Persistence("check user orders", err)
		}
		if ordered {
			return &apperr.ConflictError{Entity: "user", ID: id, Reason: "has existing orders"}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.UserDetail{}).Error; err != nil {
			return apperr.Persistence("delete user detail", err)
		}
		if err := tx.Unscoped().Delete(&models.User{}, id).Error; err != nil {
			return apperr.Persistence("delete user", err)
		}
		return nil
	})
}
