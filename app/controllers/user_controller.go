package controllers

import (
	"context"
	"time"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/resources"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
	"github.com/shashiranjanraj/orderdesk/pkg/resource"
)

// Accounts is the part of services.UserService the controller uses.
type Accounts interface {
	List(ctx context.Context, page, perPage int) ([]models.User, orm.Pagination, error)
	FindOrFail(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, data models.UserData, role string) (*models.User, error)
	Update(ctx context.Context, id uint, data models.UserData) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserController struct {
	users   Accounts
	perPage int
}

func NewUserController(users Accounts, perPage int) *UserController {
	return &UserController{users: users, perPage: perPage}
}

const dateLayout = "2006-01-02"

type userRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Password    *string `json:"password" validate:"min=8"`
	Phone       *string `json:"phone" validate:"max=20"`
	Address     *string `json:"address" validate:"max=255"`
	City        *string `json:"city" validate:"max=100"`
	State       *string `json:"state" validate:"max=100"`
	PostalCode  *string `json:"postal_code" validate:"max=20"`
	Country     *string `json:"country" validate:"max=100"`
	DateOfBirth *string `json:"date_of_birth"`
}

// data converts the request, reporting a malformed date_of_birth as a
// field error.
func (r userRequest) data(c *ctx.Context) (models.UserData, bool) {
	detail := &models.UserDetailData{
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, *r.DateOfBirth)
		if err != nil || dob.After(time.Now()) {
			c.ValidationError(map[string]string{
				"date_of_birth": "The date of birth must be a past date in YYYY-MM-DD format.",
			})
			return models.UserData{}, false
		}
		detail.DateOfBirth = &dob
	}
	return models.UserData{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Detail:   detail,
	}, true
}

// Index: GET /api/users?page=&per_page=
func (uc *UserController) Index(c *ctx.Context) {
	users, page, err := uc.users.List(c.Context(), c.QueryInt("page", 1), c.QueryInt("per_page", uc.perPage))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Paginated(resource.Many(users, resources.User), page)
}

// Store: POST /api/users
func (uc *UserController) Store(c *ctx.Context) {
	var req userRequest
	if !c.BindJSON(&req) {
		return
	}
	data, ok := req.data(c)
	if !ok {
		return
	}
	user, err := uc.users.Create(c.Context(), data, "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(resources.User(*user))
}

// Show: GET /api/users/{id}
func (uc *UserController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	user, err := uc.users.FindOrFail(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.User(*user))
}

// Update: PUT /api/users/{id}. Omitting password keeps the current one.
func (uc *UserController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var req userRequest
	if !c.BindJSON(&req) {
		return
	}
	data, ok := req.data(c)
	if !ok {
		return
	}
	user, err := uc.users.Update(c.Context(), id, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resources.User(*user))
}

// Destroy: DELETE /api/users/{id}
func (uc *UserController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := uc.users.Delete(c.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Message("User deleted.", nil)
}
