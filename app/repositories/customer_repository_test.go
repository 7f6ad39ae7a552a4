package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/auth"
)

func TestCustomerDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewCustomerRepository(db)

	require.NoError(t, repo.Create(&models.Customer{
		Name: "Primeira", Email: "dupe@example.com", PasswordHash: "x",
	}))

	err := repo.Create(&models.Customer{
		Name: "Segunda", Email: "dupe@example.com", PasswordHash: "y",
	})
	assert.ErrorIs(t, err, repositories.ErrEmailInUse)
}

func TestCustomerFindByEmailMissIsNilNil(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewCustomerRepository(db)

	// A miss is not an error: login must not be able to distinguish an
	// unknown email from a wrong password.
	customer, err := repo.FindByEmail("ninguem@example.com")
	assert.NoError(t, err)
	assert.Nil(t, customer)
}

func TestCustomerUpdateRehashesPassword(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewCustomerRepository(db)

	hash, err := auth.HashPassword("antiga1")
	require.NoError(t, err)
	c := &models.Customer{Name: "Troca Senha", Email: "senha@example.com", PasswordHash: hash}
	require.NoError(t, repo.Create(c))

	nova := "novasenha1"
	updated, err := repo.Update(c.ID, repositories.CustomerUpdate{Password: &nova})
	require.NoError(t, err)

	assert.NotEqual(t, nova, updated.PasswordHash, "password must be stored hashed")
	assert.True(t, auth.CheckPassword(updated.PasswordHash, nova))
	assert.False(t, auth.CheckPassword(updated.PasswordHash, "antiga1"))
}

func TestCustomerUpdateSameValuesIsNotANotFound(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewCustomerRepository(db)

	c := seedCustomer(t, db, "igual@example.com")

	same := c.Name
	updated, err := repo.Update(c.ID, repositories.CustomerUpdate{Name: &same})
	require.NoError(t, err)
	assert.Equal(t, c.Name, updated.Name)
}

func TestCustomerUpdateUnknownID(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewCustomerRepository(db)

	name := "Fantasma"
	_, err := repo.Update(404, repositories.CustomerUpdate{Name: &name})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCustomerDelete(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewCustomerRepository(db)

	c := seedCustomer(t, db, "tchau@example.com")
	require.NoError(t, repo.Delete(c.ID))

	_, err := repo.FindByID(c.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(c.ID), repositories.ErrNotFound)
}

func TestAdminLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewAdminRepository(db)

	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, repo.Create(&models.Admin{Email: "adm@example.com", PasswordHash: hash}))

	found, err := repo.FindByEmail("adm@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, auth.CheckPassword(found.PasswordHash, "admin123"))

	missing, err := repo.FindByEmail("outro@example.com")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	newHash, err := auth.HashPassword("outra456")
	require.NoError(t, err)
	require.NoError(t, repo.UpdatePassword("adm@example.com", newHash))

	found, err = repo.FindByEmail("adm@example.com")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(found.PasswordHash, "outra456"))

	require.NoError(t, repo.Delete("adm@example.com"))
	gone, err := repo.FindByEmail("adm@example.com")
	assert.NoError(t, err)
	assert.Nil(t, gone)
}
