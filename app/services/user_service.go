package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/pkg/auth"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
)

// UserService manages accounts and their profiles. Passwords are stored
// as bcrypt hashes; plain text never reaches the repository.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) All(ctx context.Context) ([]models.User, error) {
	return s.users.All(ctx)
}

func (s *UserService) List(ctx context.Context, page, perPage int) ([]models.User, orm.Pagination, error) {
	return s.users.Paginate(ctx, page, perPage)
}

// Find returns nil without an error when no user has id.
func (s *UserService) Find(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// FindOrFail is Find with a miss reported as ErrNotFound.
func (s *UserService) FindOrFail(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Create registers a user with the given role; an empty role means
// customer.
func (s *UserService) Create(ctx context.Context, data models.UserData, role string) (*models.User, error) {
	data, err := normaliseUserData(data)
	if err != nil {
		return nil, err
	}
	if data.Password == nil {
		return nil, apperr.Invalid("password", "is required")
	}

	if _, err := s.users.FindByEmail(ctx, data.Email); err == nil {
		return nil, &apperr.ConflictError{Entity: "user", Reason: "email already registered"}
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(*data.Password)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = "customer"
	}

	user := &models.User{Name: data.Name, Email: data.Email, Password: hash, Role: role}
	if err := s.users.Create(ctx, user, data.Detail); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("user created", "user_id", user.ID)
	return user, nil
}

// Update changes the account fields. A password in data is re-hashed; a
// nil one keeps the current hash.
func (s *UserService) Update(ctx context.Context, id uint, data models.UserData) (*models.User, error) {
	data, err := normaliseUserData(data)
	if err != nil {
		return nil, err
	}
	if data.Password != nil {
		hash, err := auth.HashPassword(*data.Password)
		if err != nil {
			return nil, err
		}
		data.Password = &hash
	}
	return s.users.Update(ctx, id, data)
}

// Delete removes the user and the profile. Users with orders are refused
// with a ConflictError.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("user deleted", "user_id", id)
	return nil
}

func normaliseUserData(data models.UserData) (models.UserData, error) {
	data.Name = strings.TrimSpace(data.Name)
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))
	if data.Name == "" {
		return data, apperr.Invalid("name", "is required")
	}
	if data.Email == "" {
		return data, apperr.Invalid("email", "is required")
	}
	if data.Password != nil && len(*data.Password) < 8 {
		return data, apperr.Invalid("password", "must be at least 8 characters")
	}
	return data, nil
}
