// internal/handler/dashboard_handler.go
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/mailcampaign-backend/internal/controller"
	"github.com/unclebandit/mailcampaign-backend/internal/service"
)

const msgDashboardFailed = "Failed to fetch campaign dashboard."

// DashboardHandler serves the per-tenant campaign dashboard
type DashboardHandler struct {
	Service *service.CampaignService
}

// NewDashboardHandler creates a new DashboardHandler with the given service
func NewDashboardHandler(svc *service.CampaignService) *DashboardHandler {
	return &DashboardHandler{Service: svc}
}

// GetDashboardHandler returns summary totals and one card per campaign.
// The tenant is not checked for existence.
func (h *DashboardHandler) GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")

	dashboard, err := h.Service.GetDashboard(r.Context(), tenantID)
	if err != nil {
		controller.WriteErrorMessage(w, err, msgDashboardFailed)
		return
	}

	controller.WriteJSON(w, http.StatusOK, dashboard)
}
