package controllers

import (
	"net/http"
	"strings"

	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/auth"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/middleware"
	"github.com/gfmachado/autorevenda/pkg/response"
	"github.com/gfmachado/autorevenda/pkg/ws"
)

// DashboardController serves the back-office statistics: a cached
// snapshot over REST and a live feed over websocket.
type DashboardController struct {
	stats *repositories.DashboardRepository
	hub   *ws.Hub
}

func NewDashboardController(stats *repositories.DashboardRepository, hub *ws.Hub) *DashboardController {
	return &DashboardController{stats: stats, hub: hub}
}

// GetStats returns the aggregate counters and total revenue.
func (c *DashboardController) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.stats.GetStats()
	if err != nil {
		logger.WithCtx(r.Context()).Error("dashboard stats failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao buscar estatísticas do dashboard.")
		return
	}
	response.OK(w, stats)
}

// Live upgrades to a websocket pushing fresh stats on every sale event.
// Browsers cannot set Authorization headers on websocket dials, so the
// token may come in the `token` query parameter instead.
func (c *DashboardController) Live(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		token := r.URL.Query().Get("token")
		if token == "" {
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if token == "" {
			response.Unauthorized(w, middleware.MsgTokenMissing)
			return
		}
		var err error
		claims, err = auth.Verify(token)
		if err != nil {
			response.Unauthorized(w, middleware.MsgTokenInvalid)
			return
		}
	}
	if claims.Role != auth.RoleAdmin {
		response.Forbidden(w, middleware.MsgAdminOnly)
		return
	}

	ws.Upgrade(w, r, c.hub)
}
