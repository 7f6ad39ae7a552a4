package repositories_test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/database"
)

// newTestDB opens a uniquely named in-memory sqlite database so tests
// never share state, and migrates the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	buf := make([]byte, 8)
	_, err := rand.Read(buf)
	require.NoError(t, err)

	dsn := fmt.Sprintf("file:test_%s?mode=memory&cache=shared", hex.EncodeToString(buf))
	db, err := database.Connect("sqlite", dsn)
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Customer{},
		&models.Category{},
		&models.Vehicle{},
		&models.VehicleImage{},
		&models.Sale{},
		&models.SaleItem{},
	))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedCustomer(t *testing.T, db *gorm.DB, email string) *models.Customer {
	t.Helper()
	c := &models.Customer{
		Name:         "Cliente Teste",
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefu",
		Phone:        "(11) 99999-0000",
		Address:      "Rua Exemplo, 100",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedVehicle(t *testing.T, db *gorm.DB, categoryID uint, title string, price float64, images ...string) *models.Vehicle {
	t.Helper()
	repo := repositories.NewVehicleRepository(db)
	v := &models.Vehicle{
		Title:       title,
		Price:       price,
		CategoryID:  categoryID,
		Make:        "Fiat",
		Model:       "Uno",
		FactoryYear: 2018,
		ModelYear:   2019,
		Mileage:     45000,
		Color:       "prata",
	}
	require.NoError(t, repo.Create(v, images))
	return v
}

func seedSale(t *testing.T, db *gorm.DB, customerID uint, total float64, settled bool, vehicleIDs ...uint) *models.Sale {
	t.Helper()
	repo := repositories.NewSaleRepository(db)
	sale, err := repo.Create(&models.Sale{
		Date:       time.Now(),
		Total:      total,
		CustomerID: customerID,
		Settled:    settled,
	}, vehicleIDs)
	require.NoError(t, err)
	return sale
}
