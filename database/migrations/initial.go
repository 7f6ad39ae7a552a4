package migrations

import (
	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/pkg/migration"
	"github.com/gfmachado/autorevenda/pkg/queue"
)

func init() {
	migration.Register("20260815000000_create_adms_table", &CreateAdmsTable{})
	migration.Register("20260815000001_create_clientes_table", &CreateClientesTable{})
	migration.Register("20260815000002_create_categoria_veiculos_table", &CreateCategoriaVeiculosTable{})
	migration.Register("20260815000003_create_veiculos_tables", &CreateVeiculosTables{})
	migration.Register("20260815000004_create_vendas_tables", &CreateVendasTables{})
	migration.Register("20260815000005_create_failed_jobs_table", &CreateFailedJobsTable{})
}

// -------- 0000: adms --------

type CreateAdmsTable struct{}

func (m *CreateAdmsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Admin{})
}

func (m *CreateAdmsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("adms")
}

// -------- 0001: clientes --------

type CreateClientesTable struct{}

func (m *CreateClientesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Customer{})
}

func (m *CreateClientesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("clientes")
}

// -------- 0002: categoria_veiculos --------

type CreateCategoriaVeiculosTable struct{}

func (m *CreateCategoriaVeiculosTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriaVeiculosTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categoria_veiculos")
}

// -------- 0003: veiculos + veiculo_imagens --------

type CreateVeiculosTables struct{}

func (m *CreateVeiculosTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Vehicle{}, &models.VehicleImage{})
}

func (m *CreateVeiculosTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("veiculo_imagens", "veiculos")
}

// -------- 0004: vendas + venda_itens --------

type CreateVendasTables struct{}

func (m *CreateVendasTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Sale{}, &models.SaleItem{})
}

func (m *CreateVendasTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("venda_itens", "vendas")
}

// -------- 0005: failed_jobs --------

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
