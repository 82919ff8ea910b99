package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/vcscout/internal/stats"
)

// DashboardStatsInterface はダッシュボード統計のインターフェース。
type DashboardStatsInterface interface {
	Stats(ctx context.Context) (*stats.DashboardStats, error)
}

// DashboardHandler はダッシュボード統計のHTTPハンドラー。
type DashboardHandler struct {
	stats DashboardStatsInterface
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(statsService DashboardStatsInterface) *DashboardHandler {
	return &DashboardHandler{stats: statsService}
}

// DashboardStats は両ファネルの統計と週次ゴール進捗を合成して取得する。
// GET /api/dashboard/stats
func (h *DashboardHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.stats.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
