package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/pkg/cache"
	"github.com/gfmachado/autorevenda/pkg/logger"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 30 * time.Second
)

// DashboardStats is the admin console summary. Revenue counts settled
// sales only.
type DashboardStats struct {
	TotalVehicles  int64   `json:"totalVeiculos"`
	TotalCustomers int64   `json:"totalClientes"`
	TotalSales     int64   `json:"totalVendas"`
	TotalRevenue   float64 `json:"faturamentoTotal"`
}

type DashboardRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewDashboardRepository(db *gorm.DB, store *cache.Store) *DashboardRepository {
	return &DashboardRepository{db: db, cache: store}
}

// GetStats computes the four aggregates, with a short redis cache in
// front since the admin console polls this endpoint.
func (r *DashboardRepository) GetStats() (*DashboardStats, error) {
	ctx := context.Background()

	var stats DashboardStats
	if r.cache.Get(ctx, statsCacheKey, &stats) {
		return &stats, nil
	}

	if err := r.db.Model(&models.Vehicle{}).Count(&stats.TotalVehicles).Error; err != nil {
		logger.Error("dashboard: vehicle count failed", "error", err)
		return nil, ErrPersistence
	}
	if err := r.db.Model(&models.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		logger.Error("dashboard: customer count failed", "error", err)
		return nil, ErrPersistence
	}
	if err := r.db.Model(&models.Sale{}).Count(&stats.TotalSales).Error; err != nil {
		logger.Error("dashboard: sale count failed", "error", err)
		return nil, ErrPersistence
	}

	// COALESCE keeps the zero-sales case at 0 instead of NULL.
	err := r.db.Model(&models.Sale{}).
		Select("COALESCE(SUM(preco_total), 0)").
		Where("efetivada = ?", true).
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		logger.Error("dashboard: revenue sum failed", "error", err)
		return nil, ErrPersistence
	}

	if err := r.cache.Set(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
		logger.Warn("dashboard: cache set failed", "error", err)
	}
	return &stats, nil
}

// BustCache drops the cached stats; called when a sale changes.
func (r *DashboardRepository) BustCache() {
	if err := r.cache.Forget(context.Background(), statsCacheKey); err != nil {
		logger.Warn("dashboard: cache bust failed", "error", err)
	}
}
