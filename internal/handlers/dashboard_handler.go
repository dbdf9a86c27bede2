package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"babytrack/internal/service"
)

// DashboardHandler serves the per-baby statistics rollup
type DashboardHandler struct {
	statsService *service.StatisticsService
	logger       zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(statsService *service.StatisticsService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{statsService: statsService, logger: logger}
}

// GetBabyStatistics returns the dashboard rollups for one baby. Sections
// the caller may not view are omitted from the response.
func (h *DashboardHandler) GetBabyStatistics(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	stats, err := h.statsService.GetBabyStatistics(user.ID, babyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	resp := map[string]interface{}{}
	if stats.Feeding != nil {
		resp["feeding"] = map[string]interface{}{
			"count":         stats.Feeding.Count,
			"avg_amount_ml": stats.Feeding.AvgAmountML,
		}
	}
	if stats.Sleep != nil {
		resp["sleep"] = map[string]interface{}{
			"count":         stats.Sleep.Count,
			"total_minutes": stats.Sleep.TotalMinutes,
			"avg_minutes":   stats.Sleep.AvgMinutes,
			"ongoing":       stats.Sleep.Ongoing,
		}
	}
	if stats.Diaper != nil {
		resp["diaper"] = map[string]interface{}{
			"count": stats.Diaper.Count,
		}
	}
	if stats.LatestGrowth != nil {
		resp["latest_growth"] = toGrowthResponse(stats.LatestGrowth)
	}
	if stats.Contraction != nil {
		resp["contraction"] = map[string]interface{}{
			"count":                 stats.Contraction.Count,
			"avg_duration_seconds":  stats.Contraction.AvgDurationSeconds,
			"avg_interval_seconds":  stats.Contraction.AvgIntervalSeconds,
			"last_interval_seconds": stats.Contraction.LastIntervalSeconds,
			"ongoing":               stats.Contraction.Ongoing,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
