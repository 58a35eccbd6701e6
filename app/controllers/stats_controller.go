package controllers

import (
	"net/http"

	"github.com/printipid/printipid/app/services"
	"github.com/printipid/printipid/pkg/middleware"
	"github.com/printipid/printipid/pkg/response"
)

// StatsController serves dashboard aggregates.
type StatsController struct {
	stats *services.StatsService
}

func NewStatsController(stats *services.StatsService) *StatsController {
	return &StatsController{stats: stats}
}

// Admin returns shop-wide stats.
// GET /api/admin/stats
func (c *StatsController) Admin(w http.ResponseWriter, r *http.Request) {
	stats, err := c.stats.ForAdmin(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, stats)
}

// Mine returns the caller's own order stats; TotalSales reads as total spent.
// GET /api/stats
func (c *StatsController) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	stats, err := c.stats.ForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, stats)
}
