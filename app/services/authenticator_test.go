package services_test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/app/services"
	"github.com/gfmachado/autorevenda/pkg/auth"
	"github.com/gfmachado/autorevenda/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	buf := make([]byte, 8)
	_, err := rand.Read(buf)
	require.NoError(t, err)

	db, err := database.Connect("sqlite",
		fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", hex.EncodeToString(buf)))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Admin{}, &models.Customer{}))
	return db
}

func newAuthenticator(t *testing.T) (*services.Authenticator, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return services.NewAuthenticator(
		repositories.NewAdminRepository(db),
		repositories.NewCustomerRepository(db),
	), db
}

func TestAuthenticateAdmin(t *testing.T) {
	a, db := newAuthenticator(t)

	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{Email: "adm@example.com", PasswordHash: hash}).Error)

	admin, err := a.AuthenticateAdmin("adm@example.com", "admin123")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "adm@example.com", admin.Email)
}

func TestAuthenticateAdminNoMatchIsIndistinguishable(t *testing.T) {
	a, db := newAuthenticator(t)

	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{Email: "adm@example.com", PasswordHash: hash}).Error)

	// Unknown email and wrong password return exactly the same thing.
	byEmail, err := a.AuthenticateAdmin("ninguem@example.com", "admin123")
	assert.NoError(t, err)
	assert.Nil(t, byEmail)

	byPassword, err := a.AuthenticateAdmin("adm@example.com", "errada")
	assert.NoError(t, err)
	assert.Nil(t, byPassword)
}

func TestAuthenticateCustomer(t *testing.T) {
	a, db := newAuthenticator(t)

	hash, err := auth.HashPassword("segredo1")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Customer{
		Name: "Maria", Email: "maria@example.com", PasswordHash: hash,
	}).Error)

	customer, err := a.AuthenticateCustomer("maria@example.com", "segredo1")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "Maria", customer.Name)

	wrong, err := a.AuthenticateCustomer("maria@example.com", "segredo2")
	assert.NoError(t, err)
	assert.Nil(t, wrong)
}
