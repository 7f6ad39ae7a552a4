package repositories

import (
	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/pkg/logger"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts an admin. Used by the seeder and the CLI only.
func (r *AdminRepository) Create(admin *models.Admin) error {
	if err := r.db.Create(admin).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrEmailInUse
		}
		logger.Error("admins: create failed", "error", err)
		return ErrPersistence
	}
	return nil
}

// FindByEmail returns (nil, nil) when no admin matches, mirroring the
// customer lookup so login treats both failure modes identically.
func (r *AdminRepository) FindByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Where("email = ?", email).First(&admin).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		logger.Error("admins: find by email failed", "error", err)
		return nil, ErrPersistence
	}
	return &admin, nil
}

// UpdatePassword is the only supported admin mutation.
func (r *AdminRepository) UpdatePassword(email, passwordHash string) error {
	res := r.db.Model(&models.Admin{}).
		Where("email = ?", email).
		Update("senha_hash", passwordHash)
	if res.Error != nil {
		logger.Error("admins: password update failed", "error", res.Error)
		return ErrPersistence
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminRepository) Delete(email string) error {
	res := r.db.Where("email = ?", email).Delete(&models.Admin{})
	if res.Error != nil {
		logger.Error("admins: delete failed", "error", res.Error)
		return ErrPersistence
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
