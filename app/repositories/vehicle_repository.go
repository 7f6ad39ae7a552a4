package repositories

import (
	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/pkg/logger"
)

// VehicleFilters narrows the storefront listing. Zero values mean "no
// filter".
type VehicleFilters struct {
	TitleContains string
	Make          string
	FactoryYear   int
	PriceMin      float64
	PriceMax      float64
}

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts the vehicle and its image rows in one transaction and
// re-reads the category so the response carries the full snapshot.
// imageNames keeps upload order; Position records it.
func (r *VehicleRepository) Create(vehicle *models.Vehicle, imageNames []string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vehicle).Error; err != nil {
			return err
		}

		images := make([]models.VehicleImage, 0, len(imageNames))
		for i, name := range imageNames {
			images = append(images, models.VehicleImage{
				VehicleID: vehicle.ID,
				Filename:  name,
				Position:  i,
			})
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		vehicle.Images = images

		var category models.Category
		if err := tx.First(&category, vehicle.CategoryID).Error; err != nil {
			return err
		}
		vehicle.Category = &category

		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		logger.Error("vehicles: create failed", "error", err)
		return ErrPersistence
	}

	vehicle.SyncImageNames()
	return nil
}

// FindAll lists vehicles newest-first, with optional filters and
// page/limit pagination. Images come preloaded in stored order.
func (r *VehicleRepository) FindAll(filters VehicleFilters, page, limit int) ([]models.Vehicle, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	q := r.db.Model(&models.Vehicle{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("posicao asc")
		}).
		Preload("Category")

	if filters.TitleContains != "" {
		q = q.Where("titulo LIKE ?", "%"+filters.TitleContains+"%")
	}
	if filters.Make != "" {
		q = q.Where("marca = ?", filters.Make)
	}
	if filters.FactoryYear > 0 {
		q = q.Where("ano_fabricacao = ?", filters.FactoryYear)
	}
	if filters.PriceMin > 0 {
		q = q.Where("preco >= ?", filters.PriceMin)
	}
	if filters.PriceMax > 0 {
		q = q.Where("preco <= ?", filters.PriceMax)
	}

	var vehicles []models.Vehicle
	err := q.Order("id desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&vehicles).Error
	if err != nil {
		logger.Error("vehicles: list failed", "error", err)
		return nil, ErrPersistence
	}
	return vehicles, nil
}

// FindByID loads one vehicle with its images and category.
func (r *VehicleRepository) FindByID(id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("posicao asc")
		}).
		Preload("Category").
		First(&vehicle, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		logger.Error("vehicles: find failed", "id", id, "error", err)
		return nil, ErrPersistence
	}
	return &vehicle, nil
}

// FindMostSold ranks vehicles by how many sales reference them. Vehicles
// with zero sales still appear, ranked last.
func (r *VehicleRepository) FindMostSold(limit int) ([]models.Vehicle, error) {
	if limit < 1 {
		limit = 10
	}

	var vehicles []models.Vehicle
	err := r.db.Model(&models.Vehicle{}).
		Select("veiculos.*, COUNT(venda_itens.id) AS total_vendas").
		Joins("LEFT JOIN venda_itens ON venda_itens.veiculo_id = veiculos.id").
		Group("veiculos.id").
		Order("total_vendas DESC, veiculos.id DESC").
		Limit(limit).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("posicao asc")
		}).
		Preload("Category").
		Find(&vehicles).Error
	if err != nil {
		logger.Error("vehicles: most-sold failed", "error", err)
		return nil, ErrPersistence
	}
	return vehicles, nil
}

// Update rewrites the vehicle's scalar fields and, when newImageNames is
// non-nil, swaps the whole image set. The replaced filenames are returned
// so the caller can unlink the files after commit.
func (r *VehicleRepository) Update(id uint, vehicle *models.Vehicle, newImageNames []string) ([]string, error) {
	var replaced []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Vehicle
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"titulo":         vehicle.Title,
			"preco":          vehicle.Price,
			"descricao":      vehicle.Description,
			"categoria_id":   vehicle.CategoryID,
			"modelo":         vehicle.Model,
			"marca":          vehicle.Make,
			"ano_fabricacao": vehicle.FactoryYear,
			"ano_modelo":     vehicle.ModelYear,
			"quilometragem":  vehicle.Mileage,
			"cor":            vehicle.Color,
			"documentacao":   vehicle.Documentation,
			"revisoes":       vehicle.ServiceHistory,
		}
		if err := tx.Model(&models.Vehicle{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if newImageNames == nil {
			return nil
		}

		var old []models.VehicleImage
		if err := tx.Where("veiculo_id = ?", id).Find(&old).Error; err != nil {
			return err
		}
		for _, img := range old {
			replaced = append(replaced, img.Filename)
		}

		if err := tx.Where("veiculo_id = ?", id).Delete(&models.VehicleImage{}).Error; err != nil {
			return err
		}

		images := make([]models.VehicleImage, 0, len(newImageNames))
		for i, name := range newImageNames {
			images = append(images, models.VehicleImage{
				VehicleID: id,
				Filename:  name,
				Position:  i,
			})
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		logger.Error("vehicles: update failed", "id", id, "error", err)
		return nil, ErrPersistence
	}

	return replaced, nil
}

// Delete removes the vehicle and its image rows, refusing when any sale
// references it. The removed filenames are returned for file cleanup.
func (r *VehicleRepository) Delete(id uint) ([]string, error) {
	var filenames []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Vehicle
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}

		var sold int64
		if err := tx.Model(&models.SaleItem{}).Where("veiculo_id = ?", id).Count(&sold).Error; err != nil {
			return err
		}
		if sold > 0 {
			return ErrVehicleSold
		}

		var images []models.VehicleImage
		if err := tx.Where("veiculo_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		for _, img := range images {
			filenames = append(filenames, img.Filename)
		}

		if err := tx.Where("veiculo_id = ?", id).Delete(&models.VehicleImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Vehicle{}, id).Error
	})
	if err != nil {
		switch {
		case isNotFound(err):
			return nil, ErrNotFound
		case err == ErrVehicleSold:
			return nil, ErrVehicleSold
		default:
			logger.Error("vehicles: delete failed", "id", id, "error", err)
			return nil, ErrPersistence
		}
	}

	return filenames, nil
}

// AllImageFilenames lists every stored image row, for the orphaned-file
// reconciliation sweep.
func (r *VehicleRepository) AllImageFilenames() (map[string]bool, error) {
	var images []models.VehicleImage
	if err := r.db.Find(&images).Error; err != nil {
		logger.Error("vehicles: image listing failed", "error", err)
		return nil, ErrPersistence
	}
	known := make(map[string]bool, len(images))
	for _, img := range images {
		known[img.Filename] = true
	}
	return known, nil
}
