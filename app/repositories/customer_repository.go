package repositories

import (
	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/pkg/auth"
	"github.com/gfmachado/autorevenda/pkg/logger"
)

// CustomerUpdate carries a partial update; nil fields are left untouched.
// Password is plain text and re-hashed here.
type CustomerUpdate struct {
	Name     *string
	Phone    *string
	Email    *string
	Address  *string
	Password *string
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a customer. The caller provides the already-hashed
// password in customer.PasswordHash.
func (r *CustomerRepository) Create(customer *models.Customer) error {
	if err := r.db.Create(customer).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrEmailInUse
		}
		logger.Error("customers: create failed", "error", err)
		return ErrPersistence
	}
	return nil
}

func (r *CustomerRepository) FindAll() ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.Order("id").Find(&customers).Error; err != nil {
		logger.Error("customers: list failed", "error", err)
		return nil, ErrPersistence
	}
	return customers, nil
}

func (r *CustomerRepository) FindByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		logger.Error("customers: find failed", "id", id, "error", err)
		return nil, ErrPersistence
	}
	return &customer, nil
}

// FindByEmail returns (nil, nil) when no customer matches, so login flows
// can treat unknown email and wrong password identically.
func (r *CustomerRepository) FindByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("email = ?", email).First(&customer).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		logger.Error("customers: find by email failed", "error", err)
		return nil, ErrPersistence
	}
	return &customer, nil
}

// Update applies the non-nil fields and returns the fresh record.
func (r *CustomerRepository) Update(id uint, upd CustomerUpdate) (*models.Customer, error) {
	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["nome"] = *upd.Name
	}
	if upd.Phone != nil {
		updates["telefone"] = *upd.Phone
	}
	if upd.Email != nil {
		updates["email"] = *upd.Email
	}
	if upd.Address != nil {
		updates["endereco"] = *upd.Address
	}
	if upd.Password != nil {
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			logger.Error("customers: password hash failed", "error", err)
			return nil, ErrPersistence
		}
		updates["senha_hash"] = hash
	}

	// Existence first: RowsAffected can legally be zero when the new
	// values equal the old ones.
	if _, err := r.FindByID(id); err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return r.FindByID(id)
	}

	err := r.db.Model(&models.Customer{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrEmailInUse
		}
		logger.Error("customers: update failed", "id", id, "error", err)
		return nil, ErrPersistence
	}

	return r.FindByID(id)
}

func (r *CustomerRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Customer{}, id)
	if res.Error != nil {
		logger.Error("customers: delete failed", "id", id, "error", res.Error)
		return ErrPersistence
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
