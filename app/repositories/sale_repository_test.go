package repositories_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
)

func TestSaleCreateAndFindAggregates(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Sedan")
	cust := seedCustomer(t, db, "venda@example.com")
	v1 := seedVehicle(t, db, cat.ID, "Onix Plus", 92000, "onix-1.jpg", "onix-2.jpg")
	v2 := seedVehicle(t, db, cat.ID, "HB20S", 89000)

	repo := repositories.NewSaleRepository(db)
	created, err := repo.Create(&models.Sale{
		Date:       time.Now(),
		Total:      181000,
		CustomerID: cust.ID,
		Settled:    false,
	}, []uint{v1.ID, v2.ID})
	require.NoError(t, err)

	require.NotNil(t, created.Customer)
	assert.Equal(t, "venda@example.com", created.Customer.Email)
	require.Len(t, created.Items, 2)

	byID := map[uint]models.Vehicle{}
	for _, item := range created.Items {
		byID[item.ID] = item
	}
	assert.ElementsMatch(t, []string{"onix-1.jpg", "onix-2.jpg"}, byID[v1.ID].ImageNames)
	assert.Empty(t, byID[v2.ID].ImageNames)
	assert.Equal(t, 181000.0, created.Total)
}

func TestSaleFindByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewSaleRepository(db)

	_, err := repo.FindByID(99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSaleFindAllNewestFirstAndGrouped(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Hatch")
	cust := seedCustomer(t, db, "lista@example.com")
	v1 := seedVehicle(t, db, cat.ID, "Argo Drive", 72000)
	v2 := seedVehicle(t, db, cat.ID, "Polo TSI", 98000)

	old := seedSale(t, db, cust.ID, 72000, true, v1.ID)
	newer := seedSale(t, db, cust.ID, 170000, false, v1.ID, v2.ID)
	// Push the second sale's date forward so ordering is deterministic.
	require.NoError(t, db.Model(&models.Sale{}).Where("id = ?", newer.ID).
		Update("data_venda", time.Now().Add(time.Hour)).Error)

	repo := repositories.NewSaleRepository(db)
	sales, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, sales, 2)

	assert.Equal(t, newer.ID, sales[0].ID)
	assert.Len(t, sales[0].Items, 2)
	assert.Equal(t, old.ID, sales[1].ID)
	assert.Len(t, sales[1].Items, 1)
}

func TestSaleUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Hatch")
	cust := seedCustomer(t, db, "status@example.com")
	v := seedVehicle(t, db, cat.ID, "Kwid Zen", 55000)
	sale := seedSale(t, db, cust.ID, 55000, false, v.ID)

	repo := repositories.NewSaleRepository(db)
	updated, err := repo.UpdateStatus(sale.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Settled)

	_, err = repo.UpdateStatus(999, true)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSaleUpdateHeaderFields(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Hatch")
	cust := seedCustomer(t, db, "upd@example.com")
	v := seedVehicle(t, db, cat.ID, "Sandero", 60000)
	sale := seedSale(t, db, cust.ID, 60000, false, v.ID)

	total := 58000.0
	repo := repositories.NewSaleRepository(db)
	updated, err := repo.Update(sale.ID, repositories.SaleUpdate{Total: &total})
	require.NoError(t, err)

	assert.Equal(t, 58000.0, updated.Total)
	assert.False(t, updated.Settled, "untouched fields must keep their values")
	assert.Len(t, updated.Items, 1, "items are immutable on update")
}

func TestSaleDeleteRemovesItems(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Hatch")
	cust := seedCustomer(t, db, "del@example.com")
	v := seedVehicle(t, db, cat.ID, "Fox 1.6", 48000)
	sale := seedSale(t, db, cust.ID, 48000, true, v.ID)

	repo := repositories.NewSaleRepository(db)
	require.NoError(t, repo.Delete(sale.ID))

	_, err := repo.FindByID(sale.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&models.SaleItem{}).Where("venda_id = ?", sale.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	assert.ErrorIs(t, repo.Delete(sale.ID), repositories.ErrNotFound)
}
