package models

// Customer is a storefront account holder. The password hash never leaves
// the API.
type Customer struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"column:nome;size:150;not null" json:"nome"`
	Phone        string `gorm:"column:telefone;size:30" json:"telefone"`
	Email        string `gorm:"column:email;size:150;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:senha_hash;size:100;not null" json:"-"`
	Address      string `gorm:"column:endereco;size:255" json:"endereco"`
}

func (Customer) TableName() string { return "clientes" }
