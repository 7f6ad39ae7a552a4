package models

// Category groups vehicles for storefront filtering (SUVs, sedans, ...).
type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:nome;size:100;not null;uniqueIndex" json:"nome"`
	Description string `gorm:"column:descricao;type:text" json:"descricao,omitempty"`
}

func (Category) TableName() string { return "categoria_veiculos" }
