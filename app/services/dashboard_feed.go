package services

import (
	"encoding/json"

	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/event"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/ws"
)

// DashboardFeed pushes fresh stats to connected admin consoles whenever a
// sale changes, and keeps the stats cache honest while doing it.
type DashboardFeed struct {
	hub   *ws.Hub
	stats *repositories.DashboardRepository
}

func NewDashboardFeed(hub *ws.Hub, stats *repositories.DashboardRepository) *DashboardFeed {
	return &DashboardFeed{hub: hub, stats: stats}
}

// Listen subscribes the feed to every sale event.
func (f *DashboardFeed) Listen() {
	for _, name := range []string{event.SaleCreated, event.SaleUpdated, event.SaleDeleted} {
		event.Listen(name, func(_ interface{}) {
			f.stats.BustCache()
			f.push()
		})
	}
}

func (f *DashboardFeed) push() {
	stats, err := f.stats.GetStats()
	if err != nil {
		logger.Warn("dashboard feed: stats fetch failed", "error", err)
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		logger.Warn("dashboard feed: marshal failed", "error", err)
		return
	}

	f.hub.Broadcast <- data
}
