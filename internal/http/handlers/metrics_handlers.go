package handlers

import (
	"net/http"

	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for admin view
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repo.Metrics
// @Failure 500 {string} string "Internal error"
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetDashboardMetrics()
	if err != nil {
		logx.Error().Err(err).Msg("failed to fetch metrics")
		http.Error(w, "failed to fetch metrics", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, m)
}
