package controller

import (
	"net/http"

	"github.com/unclebandit/mailcampaign-backend/internal/service"
)

type PlanController struct {
	PlanService *service.PlanService
}

// ListPlans handles GET /plans.
func (c *PlanController) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := c.PlanService.ListPlans(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, plans)
}
