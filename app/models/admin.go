package models

// Admin is a back-office operator. Admin accounts are seeded from config,
// never self-registered.
type Admin struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"column:email;size:150;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:senha_hash;size:100;not null" json:"-"`
}

func (Admin) TableName() string { return "adms" }
