package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/pkg/cache"
	"github.com/gfmachado/autorevenda/pkg/logger"
)

const (
	categoryCacheKey = "categorias:all"
	categoryCacheTTL = 5 * time.Minute
)

type CategoryRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

// NewCategoryRepository builds the repository; store may be nil, in which
// case every read hits the database.
func NewCategoryRepository(db *gorm.DB, store *cache.Store) *CategoryRepository {
	return &CategoryRepository{db: db, cache: store}
}

// FindAll lists categories ordered by name. The full list is small and
// read on every storefront page, so it is cached.
func (r *CategoryRepository) FindAll() ([]models.Category, error) {
	ctx := context.Background()

	var categories []models.Category
	if r.cache.Get(ctx, categoryCacheKey, &categories) {
		return categories, nil
	}

	if err := r.db.Order("nome").Find(&categories).Error; err != nil {
		logger.Error("categories: list failed", "error", err)
		return nil, ErrPersistence
	}

	if err := r.cache.Set(ctx, categoryCacheKey, categories, categoryCacheTTL); err != nil {
		logger.Warn("categories: cache set failed", "error", err)
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		logger.Error("categories: find failed", "id", id, "error", err)
		return nil, ErrPersistence
	}
	return &category, nil
}

func (r *CategoryRepository) Create(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrCategoryExists
		}
		logger.Error("categories: create failed", "error", err)
		return ErrPersistence
	}
	r.bustCache()
	return nil
}

func (r *CategoryRepository) Update(id uint, category *models.Category) (*models.Category, error) {
	if _, err := r.FindByID(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"nome":      category.Name,
		"descricao": category.Description,
	}
	if err := r.db.Model(&models.Category{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		logger.Error("categories: update failed", "id", id, "error", err)
		return nil, ErrPersistence
	}

	r.bustCache()
	return r.FindByID(id)
}

// Delete refuses while any vehicle still references the category. The
// check and the delete share one transaction so a concurrent vehicle
// insert cannot slip between them.
func (r *CategoryRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Category
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}

		var inUse int64
		if err := tx.Model(&models.Vehicle{}).Where("categoria_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return ErrCategoryInUse
		}

		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		switch {
		case isNotFound(err):
			return ErrNotFound
		case err == ErrCategoryInUse:
			return ErrCategoryInUse
		default:
			logger.Error("categories: delete failed", "id", id, "error", err)
			return ErrPersistence
		}
	}

	r.bustCache()
	return nil
}

func (r *CategoryRepository) bustCache() {
	if err := r.cache.Forget(context.Background(), categoryCacheKey); err != nil {
		logger.Warn("categories: cache bust failed", "error", err)
	}
}
