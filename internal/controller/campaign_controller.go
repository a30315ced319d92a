// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/mailcampaign-backend/internal/errors"
	"github.com/unclebandit/mailcampaign-backend/internal/service"
)

const (
	msgInvalidBody         = "Invalid request body"
	msgTenantRequiredQuery = "tenantId is required in query."
	msgTenantRequiredBody  = "tenantId is required in body"
	msgCampaignDeleted     = "Campaign deleted successfully"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Log             *zap.Logger
	validate        *validator.Validate
}

func NewCampaignController(svc *service.CampaignService, log *zap.Logger) *CampaignController {
	return &CampaignController{
		CampaignService: svc,
		Log:             log,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
}

type createCampaignRequest struct {
	TenantID    string     `json:"tenantId" validate:"required"`
	TemplateID  string     `json:"templateId" validate:"required"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

// CreateCampaign handles POST /campaigns.
func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		c.Log.Debug("invalid create campaign body", zap.Error(err))
		WriteError(w, appErrors.NewInvalidInput(msgInvalidBody))
		return
	}

	if err := c.validate.Struct(body); err != nil {
		WriteError(w, appErrors.NewMissingInput("tenantId and templateId are required"))
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(r.Context(), service.CreateCampaignInput{
		TenantID:    body.TenantID,
		TemplateID:  body.TemplateID,
		ScheduledAt: body.ScheduledAt,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, campaign)
}

// GetCampaigns handles GET /campaigns/{id}. With a tenantId query parameter
// the path value is a campaign id; without one it is a tenant id and the
// tenant's campaigns are listed.
func (c *CampaignController) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("tenantId") {
		c.GetCampaignByID(w, r)
		return
	}
	c.ListCampaigns(w, r)
}

// ListCampaigns returns every campaign of the tenant in the path.
func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")

	campaigns, err := c.CampaignService.ListCampaigns(r.Context(), tenantID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, campaigns)
}

// GetCampaignByID returns one campaign owned by the tenant in the query.
func (c *CampaignController) GetCampaignByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		WriteError(w, appErrors.NewMissingInput(msgTenantRequiredQuery))
		return
	}

	campaign, err := c.CampaignService.GetCampaign(r.Context(), id, tenantID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, campaign)
}

// UpdateCampaign handles PATCH /campaigns/{id}. tenantId in the body is used
// for the ownership check only; every other key is an update.
func (c *CampaignController) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		c.Log.Debug("invalid update campaign body", zap.String("campaign_id", id), zap.Error(err))
		WriteError(w, appErrors.NewInvalidInput(msgInvalidBody))
		return
	}

	tenantID, _ := body["tenantId"].(string)
	if tenantID == "" {
		WriteError(w, appErrors.NewMissingInput(msgTenantRequiredBody))
		return
	}
	delete(body, "tenantId")

	campaign, err := c.CampaignService.UpdateCampaign(r.Context(), id, tenantID, body)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, campaign)
}

// DeleteCampaign handles DELETE /campaigns/{id}?tenantId=.
func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		WriteError(w, appErrors.NewMissingInput(msgTenantRequiredQuery))
		return
	}

	if err := c.CampaignService.DeleteCampaign(r.Context(), id, tenantID); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": msgCampaignDeleted})
}
