package seeders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/shashiranjanraj/orderdesk/database/migrations"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/database/seeders"
	"github.com/shashiranjanraj/orderdesk/pkg/auth"
	"github.com/shashiranjanraj/orderdesk/pkg/testkit"
)

func TestRunAllIsRepeatable(t *testing.T) {
	db := testkit.NewMigratedDB(t)

	ran, err := seeders.RunAll(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "products"}, ran)

	_, err = seeders.RunAll(db)
	require.NoError(t, err)

	var users, products int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(4), products)

	var demo models.User
	require.NoError(t, db.Where("email = ?", seeders.DemoEmail).First(&demo).Error)
	assert.True(t, auth.CheckPassword(demo.Password, seeders.DemoPassword))
}
