package handler

import (
	"context"
	"net/http"

	"github.com/forgo/roster/internal/middleware"
	"github.com/forgo/roster/internal/model"
)

// DashboardService computes analytics over the current contract set
type DashboardService interface {
	Stats(ctx context.Context, requester model.Requester) (*model.DashboardStats, error)
}

// DashboardHandler serves the admin dashboard
type DashboardHandler struct {
	dashboardService DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats handles GET /v1/dashboard
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context(), middleware.GetRequester(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteData(w, http.StatusOK, stats, nil)
}
