package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/app/apperr"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/app/services"
	_ "github.com/shashiranjanraj/orderdesk/database/migrations"
	"github.com/shashiranjanraj/orderdesk/pkg/auth"
	"github.com/shashiranjanraj/orderdesk/pkg/testkit"
)

func newUserService(t *testing.T) *services.UserService {
	t.Helper()
	return services.NewUserService(repositories.NewUserRepository(testkit.NewMigratedDB(t)))
}

func password(s string) *string { return &s }

func TestUserServiceCreate(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()

	city := "Arlington"
	u, err := users.Create(ctx, models.UserData{
		Name:     " Grace ",
		Email:    " Grace@Example.com ",
		Password: password("password123"),
		Detail:   &models.UserDetailData{City: &city},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Grace", u.Name)
	assert.Equal(t, "grace@example.com", u.Email)
	assert.Equal(t, "customer", u.Role)
	assert.NotEqual(t, "password123", u.Password)
	assert.True(t, auth.CheckPassword(u.Password, "password123"))

	_, err = users.Create(ctx, models.UserData{Name: "Dup", Email: "GRACE@example.com", Password: password("password123")}, "")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = users.Create(ctx, models.UserData{Name: "NoPass", Email: "np@example.com"}, "")
	var inval *apperr.ValidationError
	require.ErrorAs(t, err, &inval)
	assert.Equal(t, "password", inval.Field)

	_, err = users.Create(ctx, models.UserData{Name: "Short", Email: "s@example.com", Password: password("short")}, "")
	require.ErrorAs(t, err, &inval)
	assert.Equal(t, "password", inval.Field)
}

func TestUserServiceFind(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()

	u, err := users.Create(ctx, models.UserData{Name: "Grace", Email: "grace@example.com", Password: password("password123")}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)

	found, err := users.Find(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	missing, err := users.Find(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = users.FindOrFail(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	all, err := users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserServiceUpdateRehashesPassword(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()

	u, err := users.Create(ctx, models.UserData{Name: "Grace", Email: "grace@example.com", Password: password("password123")}, "")
	require.NoError(t, err)

	kept, err := users.Update(ctx, u.ID, models.UserData{Name: "Grace Hopper", Email: "grace@example.com"})
	require.NoError(t, err)
	assert.Equal(t, u.Password, kept.Password)

	changed, err := users.Update(ctx, u.ID, models.UserData{
		Name: "Grace Hopper", Email: "grace@example.com", Password: password("another-secret"),
	})
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(changed.Password, "another-secret"))
	assert.False(t, auth.CheckPassword(changed.Password, "password123"))

	_, err = users.Update(ctx, u.ID, models.UserData{Name: "", Email: "grace@example.com"})
	var inval *apperr.ValidationError
	require.ErrorAs(t, err, &inval)
	assert.Equal(t, "name", inval.Field)

	require.NoError(t, users.Delete(ctx, u.ID))
	assert.ErrorIs(t, users.Delete(ctx, u.ID), apperr.ErrNotFound)
}
