package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
)

func TestVehicleCreatePreservesImageOrder(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Hatch")

	v := seedVehicle(t, db, cat.ID, "Fiat Uno 1.0", 35900, "aa-frente.jpg", "bb-lateral.jpg", "cc-interior.jpg")

	repo := repositories.NewVehicleRepository(db)
	loaded, err := repo.FindByID(v.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"aa-frente.jpg", "bb-lateral.jpg", "cc-interior.jpg"}, loaded.ImageNames)
	require.NotNil(t, loaded.Category)
	assert.Equal(t, "Hatch", loaded.Category.Name)
}

func TestVehicleCreateUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewVehicleRepository(db)

	err := repo.Create(&models.Vehicle{Title: "Sem categoria", Price: 10000, CategoryID: 999}, nil)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestVehicleFindAllFiltersAndPagination(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Sedan")

	seedVehicle(t, db, cat.ID, "Civic EXL", 120000)
	seedVehicle(t, db, cat.ID, "Corolla XEi", 115000)
	seedVehicle(t, db, cat.ID, "Civic Touring", 140000)

	repo := repositories.NewVehicleRepository(db)

	byTitle, err := repo.FindAll(repositories.VehicleFilters{TitleContains: "Civic"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, byTitle, 2)
	// Newest first.
	assert.Equal(t, "Civic Touring", byTitle[0].Title)

	byPrice, err := repo.FindAll(repositories.VehicleFilters{PriceMax: 120000}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, byPrice, 2)

	page2, err := repo.FindAll(repositories.VehicleFilters{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "Civic EXL", page2[0].Title)
}

func TestVehicleFindMostSoldRanking(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "SUV")
	cust := seedCustomer(t, db, "comprador@example.com")

	popular := seedVehicle(t, db, cat.ID, "Compass", 150000)
	once := seedVehicle(t, db, cat.ID, "Renegade", 110000)
	never := seedVehicle(t, db, cat.ID, "Tracker", 120000)

	seedSale(t, db, cust.ID, 150000, true, popular.ID)
	seedSale(t, db, cust.ID, 260000, true, popular.ID, once.ID)

	repo := repositories.NewVehicleRepository(db)
	ranked, err := repo.FindMostSold(10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, popular.ID, ranked[0].ID)
	assert.Equal(t, once.ID, ranked[1].ID)
	assert.Equal(t, never.ID, ranked[2].ID)
}

func TestVehicleUpdateSwapsImages(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Picape")
	v := seedVehicle(t, db, cat.ID, "Hilux SRX", 280000, "old-1.jpg", "old-2.jpg")

	repo := repositories.NewVehicleRepository(db)

	replaced, err := repo.Update(v.ID, &models.Vehicle{
		Title: "Hilux SRX 4x4", Price: 275000, CategoryID: cat.ID,
	}, []string{"new-1.jpg"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old-1.jpg", "old-2.jpg"}, replaced)

	loaded, err := repo.FindByID(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hilux SRX 4x4", loaded.Title)
	assert.Equal(t, []string{"new-1.jpg"}, loaded.ImageNames)
}

func TestVehicleUpdateNilImagesKeepsCurrent(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Hatch")
	v := seedVehicle(t, db, cat.ID, "Gol 1.6", 45000, "keep.jpg")

	repo := repositories.NewVehicleRepository(db)
	replaced, err := repo.Update(v.ID, &models.Vehicle{
		Title: "Gol 1.6 MSI", Price: 46000, CategoryID: cat.ID,
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, replaced)

	loaded, err := repo.FindByID(v.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.jpg"}, loaded.ImageNames)
}

func TestVehicleDeleteReturnsFilenames(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Hatch")
	v := seedVehicle(t, db, cat.ID, "Palio Fire", 22000, "p-1.jpg", "p-2.jpg")

	repo := repositories.NewVehicleRepository(db)
	names, err := repo.Delete(v.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p-1.jpg", "p-2.jpg"}, names)

	_, err = repo.FindByID(v.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestVehicleDeleteSoldIsBlocked(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Sedan")
	cust := seedCustomer(t, db, "dono@example.com")
	v := seedVehicle(t, db, cat.ID, "Jetta GLI", 190000)
	seedSale(t, db, cust.ID, 190000, true, v.ID)

	repo := repositories.NewVehicleRepository(db)
	_, err := repo.Delete(v.ID)
	assert.ErrorIs(t, err, repositories.ErrVehicleSold)

	// Still there.
	_, err = repo.FindByID(v.ID)
	assert.NoError(t, err)
}

func TestVehicleAllImageFilenames(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Hatch")
	seedVehicle(t, db, cat.ID, "Up TSI", 58000, "up-1.jpg")
	seedVehicle(t, db, cat.ID, "Mobi Like", 42000, "mobi-1.jpg", "mobi-2.jpg")

	repo := repositories.NewVehicleRepository(db)
	names, err := repo.AllImageFilenames()
	require.NoError(t, err)

	assert.Len(t, names, 3)
	assert.True(t, names["up-1.jpg"])
	assert.True(t, names["mobi-2.jpg"])
}
