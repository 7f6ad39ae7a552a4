package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/pkg/logger"
)

// SaleUpdate carries the partial sale update. Items are immutable after
// creation; only these header fields may change.
type SaleUpdate struct {
	Date       *time.Time
	Total      *float64
	CustomerID *uint
	Settled    *bool
}

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// saleRow is one row of the wide join that feeds FindByID and FindAll.
type saleRow struct {
	SaleID   uint      `gorm:"column:venda_id"`
	Date     time.Time `gorm:"column:data_venda"`
	Total    float64   `gorm:"column:preco_total"`
	Settled  bool      `gorm:"column:efetivada"`
	Customer struct {
		ID      uint   `gorm:"column:cliente_id"`
		Name    string `gorm:"column:cliente_nome"`
		Phone   string `gorm:"column:cliente_telefone"`
		Email   string `gorm:"column:cliente_email"`
		Address string `gorm:"column:cliente_endereco"`
	} `gorm:"embedded"`
	Vehicle struct {
		ID             uint    `gorm:"column:veiculo_id"`
		Title          string  `gorm:"column:titulo"`
		Price          float64 `gorm:"column:preco"`
		Description    string  `gorm:"column:descricao"`
		Model          string  `gorm:"column:modelo"`
		Make           string  `gorm:"column:marca"`
		FactoryYear    int     `gorm:"column:ano_fabricacao"`
		ModelYear      int     `gorm:"column:ano_modelo"`
		Mileage        int     `gorm:"column:quilometragem"`
		Color          string  `gorm:"column:cor"`
		Documentation  string  `gorm:"column:documentacao"`
		ServiceHistory string  `gorm:"column:revisoes"`
	} `gorm:"embedded"`
	Images string `gorm:"column:imagens"`
}

const saleSelect = `
SELECT
  v.id AS venda_id, v.data_venda, v.preco_total, v.efetivada,
  c.id AS cliente_id, c.nome AS cliente_nome, c.telefone AS cliente_telefone,
  c.email AS cliente_email, c.endereco AS cliente_endereco,
  ve.id AS veiculo_id, ve.titulo, ve.preco, ve.descricao, ve.modelo, ve.marca,
  ve.ano_fabricacao, ve.ano_modelo, ve.quilometragem, ve.cor, ve.documentacao, ve.revisoes,
  (SELECT GROUP_CONCAT(img.caminho_imagem) FROM veiculo_imagens img WHERE img.veiculo_id = ve.id) AS imagens
FROM vendas v
JOIN clientes c ON v.cliente_id = c.id
JOIN venda_itens vi ON v.id = vi.venda_id
JOIN veiculos ve ON vi.veiculo_id = ve.id`

// Create inserts the sale header and its item rows in one transaction,
// then re-reads the full aggregate.
func (r *SaleRepository) Create(sale *models.Sale, vehicleIDs []uint) (*models.Sale, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		items := make([]models.SaleItem, 0, len(vehicleIDs))
		for _, vid := range vehicleIDs {
			items = append(items, models.SaleItem{SaleID: sale.ID, VehicleID: vid})
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		logger.Error("sales: create failed", "error", err)
		return nil, ErrPersistence
	}

	return r.FindByID(sale.ID)
}

// FindByID loads one sale through the wide join.
func (r *SaleRepository) FindByID(id uint) (*models.Sale, error) {
	var rows []saleRow
	if err := r.db.Raw(saleSelect+" WHERE v.id = ?", id).Scan(&rows).Error; err != nil {
		logger.Error("sales: find failed", "id", id, "error", err)
		return nil, ErrPersistence
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	sales := groupSaleRows(rows)
	return &sales[0], nil
}

// FindAll lists every sale, newest first, regrouping the join rows by
// sale id in memory.
func (r *SaleRepository) FindAll() ([]models.Sale, error) {
	var rows []saleRow
	if err := r.db.Raw(saleSelect + " ORDER BY v.data_venda DESC, v.id DESC").Scan(&rows).Error; err != nil {
		logger.Error("sales: list failed", "error", err)
		return nil, ErrPersistence
	}
	return groupSaleRows(rows), nil
}

// groupSaleRows folds join rows into Sale aggregates, keyed explicitly by
// sale id. Row order within a sale follows the join; sale order follows
// first appearance.
func groupSaleRows(rows []saleRow) []models.Sale {
	index := make(map[uint]int, len(rows))
	sales := make([]models.Sale, 0, len(rows))

	for _, row := range rows {
		i, seen := index[row.SaleID]
		if !seen {
			customer := &models.Customer{
				ID:      row.Customer.ID,
				Name:    row.Customer.Name,
				Phone:   row.Customer.Phone,
				Email:   row.Customer.Email,
				Address: row.Customer.Address,
			}
			sales = append(sales, models.Sale{
				ID:         row.SaleID,
				Date:       row.Date,
				Total:      row.Total,
				CustomerID: row.Customer.ID,
				Settled:    row.Settled,
				Customer:   customer,
				Items:      []models.Vehicle{},
			})
			i = len(sales) - 1
			index[row.SaleID] = i
		}

		var imageNames []string
		if row.Images != "" {
			imageNames = strings.Split(row.Images, ",")
		} else {
			imageNames = []string{}
		}

		sales[i].Items = append(sales[i].Items, models.Vehicle{
			ID:             row.Vehicle.ID,
			Title:          row.Vehicle.Title,
			Price:          row.Vehicle.Price,
			Description:    row.Vehicle.Description,
			Model:          row.Vehicle.Model,
			Make:           row.Vehicle.Make,
			FactoryYear:    row.Vehicle.FactoryYear,
			ModelYear:      row.Vehicle.ModelYear,
			Mileage:        row.Vehicle.Mileage,
			Color:          row.Vehicle.Color,
			Documentation:  row.Vehicle.Documentation,
			ServiceHistory: row.Vehicle.ServiceHistory,
			ImageNames:     imageNames,
		})
	}

	return sales
}

// Update applies the non-nil header fields and returns the fresh sale.
func (r *SaleRepository) Update(id uint, upd SaleUpdate) (*models.Sale, error) {
	if _, err := r.FindByID(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.Date != nil {
		updates["data_venda"] = *upd.Date
	}
	if upd.Total != nil {
		updates["preco_total"] = *upd.Total
	}
	if upd.CustomerID != nil {
		updates["cliente_id"] = *upd.CustomerID
	}
	if upd.Settled != nil {
		updates["efetivada"] = *upd.Settled
	}

	if len(updates) == 0 {
		return r.FindByID(id)
	}

	if err := r.db.Model(&models.Sale{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		logger.Error("sales: update failed", "id", id, "error", err)
		return nil, ErrPersistence
	}

	return r.FindByID(id)
}

// UpdateStatus flips the settled flag only.
func (r *SaleRepository) UpdateStatus(id uint, settled bool) (*models.Sale, error) {
	return r.Update(id, SaleUpdate{Settled: &settled})
}

// Delete removes the sale and its item rows together.
func (r *SaleRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Sale
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}
		if err := tx.Where("venda_id = ?", id).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sale{}, id).Error
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		logger.Error("sales: delete failed", "id", id, "error", err)
		return ErrPersistence
	}
	return nil
}
