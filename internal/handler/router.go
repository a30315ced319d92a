package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unclebandit/mailcampaign-backend/internal/controller"
	"github.com/unclebandit/mailcampaign-backend/internal/middleware"
)

type Routes struct {
	Campaigns *controller.CampaignController
	Plans     *controller.PlanController
	Dashboard *DashboardHandler
	Health    *HealthHandler
	Log       *zap.Logger
}

// NewRouter wires every HTTP route. Campaign routes share the {id} segment:
// it holds a tenant id for list and dashboard and a campaign id otherwise.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(rt.Log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/health", rt.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", rt.Campaigns.CreateCampaign)
		r.Get("/{id}", rt.Campaigns.GetCampaigns)
		r.Patch("/{id}", rt.Campaigns.UpdateCampaign)
		r.Delete("/{id}", rt.Campaigns.DeleteCampaign)
		r.Get("/{id}/dashboard", rt.Dashboard.GetDashboardHandler)
	})

	r.Get("/plans", rt.Plans.ListPlans)

	return r
}
