package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/config"
	"github.com/gfmachado/autorevenda/pkg/auth"
)

func init() {
	Register("adms", SeedAdmin)
}

// SeedAdmin creates the back-office operator from ADMIN_EMAIL and
// ADMIN_PASSWORD. Idempotent: an existing account is left untouched.
func SeedAdmin(db *gorm.DB) error {
	email := config.AdminEmail()

	var existing models.Admin
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(config.AdminPassword())
	if err != nil {
		return err
	}

	return db.Create(&models.Admin{Email: email, PasswordHash: hash}).Error
}
