package models

import "time"

// Sale records a completed (or pending) purchase of one or more vehicles.
// Items and Customer are assembled by the repository's wide join rather
// than gorm preloads, so both carry gorm:"-".
type Sale struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Date       time.Time `gorm:"column:data_venda;not null" json:"dataVenda"`
	Total      float64   `gorm:"column:preco_total;not null" json:"precoTotal"`
	CustomerID uint      `gorm:"column:cliente_id;index;not null" json:"clienteId"`
	Settled    bool      `gorm:"column:efetivada;not null;default:false" json:"efetivada"`

	Items    []Vehicle `gorm:"-" json:"items"`
	Customer *Customer `gorm:"-" json:"cliente,omitempty"`
}

func (Sale) TableName() string { return "vendas" }

// FormattedTotal renders the sale total in BRL for display.
func (s *Sale) FormattedTotal() string { return FormatBRL(s.Total) }

// SaleItem links a sale to one sold vehicle.
type SaleItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID    uint `gorm:"column:venda_id;index;not null" json:"vendaId"`
	VehicleID uint `gorm:"column:veiculo_id;index;not null" json:"veiculoId"`
}

func (SaleItem) TableName() string { return "venda_itens" }
