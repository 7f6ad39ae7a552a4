package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Vehicle is the store's main inventory item.
type Vehicle struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string         `gorm:"column:titulo;size:150;not null" json:"titulo"`
	Price          float64        `gorm:"column:preco;not null" json:"preco"`
	Description    string         `gorm:"column:descricao;type:text" json:"descricao"`
	CategoryID     uint           `gorm:"column:categoria_id;index;not null" json:"categoriaId"`
	Model          string         `gorm:"column:modelo;size:100" json:"modelo"`
	Make           string         `gorm:"column:marca;size:100" json:"marca"`
	FactoryYear    int            `gorm:"column:ano_fabricacao" json:"anoFabricacao"`
	ModelYear      int            `gorm:"column:ano_modelo" json:"anoModelo"`
	Mileage        int            `gorm:"column:quilometragem" json:"quilometragem"`
	Color          string         `gorm:"column:cor;size:50" json:"cor"`
	Documentation  string         `gorm:"column:documentacao;type:text" json:"documentacao,omitempty"`
	ServiceHistory string         `gorm:"column:revisoes;type:text" json:"revisoes,omitempty"`
	Images         []VehicleImage `gorm:"foreignKey:VehicleID" json:"-"`
	Category       *Category      `gorm:"foreignKey:CategoryID" json:"categoria,omitempty"`

	// ImageNames is the flat filename list the API exposes, derived from
	// Images after load.
	ImageNames []string `gorm:"-" json:"imagens"`
}

func (Vehicle) TableName() string { return "veiculos" }

// AfterFind flattens the image rows into the wire-format filename list.
func (v *Vehicle) AfterFind(_ *gorm.DB) error {
	v.SyncImageNames()
	return nil
}

// SyncImageNames rebuilds ImageNames from the loaded Images rows.
func (v *Vehicle) SyncImageNames() {
	v.ImageNames = make([]string, 0, len(v.Images))
	for _, img := range v.Images {
		v.ImageNames = append(v.ImageNames, img.Filename)
	}
}

func (v *Vehicle) Kind() ItemKind { return KindVehicle }

// FormattedPrice renders the price in BRL for display.
func (v *Vehicle) FormattedPrice() string { return FormatBRL(v.Price) }

// FormattedYear renders "2007/08" when factory and model years differ,
// plain "2007" otherwise.
func (v *Vehicle) FormattedYear() string {
	if v.FactoryYear == v.ModelYear {
		return fmt.Sprintf("%d", v.FactoryYear)
	}
	model := fmt.Sprintf("%d", v.ModelYear)
	if len(model) > 2 {
		model = model[len(model)-2:]
	}
	return fmt.Sprintf("%d/%s", v.FactoryYear, model)
}

// VehicleImage is one stored photo of a vehicle. Position preserves upload
// order so the first image stays the cover shot.
type VehicleImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	VehicleID uint   `gorm:"column:veiculo_id;index;not null" json:"veiculoId"`
	Filename  string `gorm:"column:caminho_imagem;size:255;not null" json:"caminhoImagem"`
	Position  int    `gorm:"column:posicao;not null;default:0" json:"posicao"`
}

func (VehicleImage) TableName() string { return "veiculo_imagens" }
