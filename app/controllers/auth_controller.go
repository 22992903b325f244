package controllers

import (
	"context"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/resources"
	"github.com/shashiranjanraj/orderdesk/pkg/auth"
	"github.com/shashiranjanraj/orderdesk/pkg/ctx"
)

// Authenticator is the part of services.AuthService the controller uses.
type Authenticator interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type AuthController struct {
	auth Authenticator
}

func NewAuthController(a Authenticator) *AuthController {
	return &AuthController{auth: a}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register: POST /api/register
func (ac *AuthController) Register(c *ctx.Context) {
	var req registerRequest
	if !c.BindJSON(&req) {
		return
	}
	user, err := ac.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(resources.User(*user))
}

// Login: POST /api/login
func (ac *AuthController) Login(c *ctx.Context) {
	var req loginRequest
	if !c.BindJSON(&req) {
		return
	}
	token, user, err := ac.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(map[string]interface{}{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int(auth.TokenTTL.Seconds()),
		"user":       resources.User(*user),
	})
}
