// internal/service/campaign_service.go
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/mailcampaign-backend/internal/errors"
	"github.com/unclebandit/mailcampaign-backend/internal/metrics"
	"github.com/unclebandit/mailcampaign-backend/internal/model"
	"github.com/unclebandit/mailcampaign-backend/internal/queue"
	"github.com/unclebandit/mailcampaign-backend/internal/repository"
)

const (
	msgCreateMissingInput = "tenantId and templateId are required"
	msgTenantNotFound     = "Tenant not found"
	msgTemplateNotFound   = "Template not found or does not belong to tenant"
	msgDuplicateCampaign  = "Campaign is already scheduled with the same tenant, template, and scheduled time"
	msgTenantRequired     = "tenantId is required"
	msgCampaignNotFound   = "Campaign not found or does not belong to tenant"
)

// updatableFields maps accepted update keys to their columns.
var updatableFields = map[string]string{
	"templateId":  "template_id",
	"scheduledAt": "scheduled_at",
	"status":      "status",
}

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	TenantRepo   repository.TenantRepositoryInterface
	Publisher    queue.Publisher
	EventsTopic  string
	Log          *zap.Logger
}

type CreateCampaignInput struct {
	TenantID    string
	TemplateID  string
	ScheduledAt *time.Time
}

// CreateCampaign validates tenant, template and uniqueness, in that order, before inserting.
func (s *CampaignService) CreateCampaign(ctx context.Context, in CreateCampaignInput) (*model.Campaign, error) {
	if in.TenantID == "" || in.TemplateID == "" {
		return nil, appErrors.NewMissingInput(msgCreateMissingInput)
	}

	tenant, err := s.TenantRepo.FindActiveTenant(ctx, in.TenantID)
	if err != nil {
		return nil, s.internal("create campaign: tenant lookup", err, zap.String("tenant_id", in.TenantID))
	}
	if tenant == nil {
		return nil, appErrors.NewNotFound(msgTenantNotFound)
	}

	tpl, err := s.TenantRepo.FindActiveTemplate(ctx, in.TemplateID, in.TenantID)
	if err != nil {
		return nil, s.internal("create campaign: template lookup", err,
			zap.String("tenant_id", in.TenantID), zap.String("template_id", in.TemplateID))
	}
	if tpl == nil {
		return nil, appErrors.NewNotFound(msgTemplateNotFound)
	}

	existing, err := s.CampaignRepo.FindByTriple(ctx, in.TenantID, in.TemplateID, in.ScheduledAt)
	if err != nil {
		return nil, s.internal("create campaign: duplicate check", err,
			zap.String("tenant_id", in.TenantID), zap.String("template_id", in.TemplateID))
	}
	if existing != nil {
		return nil, appErrors.NewConflict(msgDuplicateCampaign)
	}

	c := &model.Campaign{
		ID:          uuid.New().String(),
		TenantID:    in.TenantID,
		TemplateID:  in.TemplateID,
		ScheduledAt: in.ScheduledAt,
	}
	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateCampaign) {
			return nil, appErrors.NewConflict(msgDuplicateCampaign)
		}
		return nil, s.internal("create campaign: insert", err, zap.String("tenant_id", in.TenantID))
	}

	s.publish(ctx, queue.CampaignCreated, c)
	return c, nil
}

// ListCampaigns returns the tenant's campaigns newest first.
func (s *CampaignService) ListCampaigns(ctx context.Context, tenantID string) ([]model.CampaignDetails, error) {
	if tenantID == "" {
		return nil, appErrors.NewMissingInput(msgTenantRequired)
	}

	campaigns, err := s.CampaignRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, s.internal("list campaigns", err, zap.String("tenant_id", tenantID))
	}
	if campaigns == nil {
		campaigns = []model.CampaignDetails{}
	}
	return campaigns, nil
}

// GetCampaign looks the campaign up by id and tenant together, so a foreign
// campaign is reported exactly like a missing one.
func (s *CampaignService) GetCampaign(ctx context.Context, id, tenantID string) (*model.CampaignDetails, error) {
	c, err := s.CampaignRepo.GetDetails(ctx, id, tenantID)
	if err != nil {
		return nil, s.internal("get campaign", err, zap.String("campaign_id", id), zap.String("tenant_id", tenantID))
	}
	if c == nil {
		return nil, appErrors.NewNotFound(msgCampaignNotFound)
	}
	return c, nil
}

// UpdateCampaign applies a partial update after the ownership check. Values
// are not re-validated; only the keys are restricted.
func (s *CampaignService) UpdateCampaign(ctx context.Context, id, tenantID string, fields map[string]any) (*model.Campaign, error) {
	current, err := s.findOwned(ctx, "update campaign", id, tenantID)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	update := model.CampaignUpdate{}
	for _, k := range keys {
		col, ok := updatableFields[k]
		if !ok {
			return nil, appErrors.NewInvalidInput("unknown field: " + k)
		}
		update[col] = fields[k]
	}
	if len(update) == 0 {
		return current, nil
	}

	updated, err := s.CampaignRepo.Update(ctx, id, update)
	if err != nil {
		return nil, s.internal("update campaign", err, zap.String("campaign_id", id), zap.String("tenant_id", tenantID))
	}

	s.publish(ctx, queue.CampaignUpdated, updated)
	return updated, nil
}

// DeleteCampaign hard-deletes a tenant-owned campaign.
func (s *CampaignService) DeleteCampaign(ctx context.Context, id, tenantID string) error {
	current, err := s.findOwned(ctx, "delete campaign", id, tenantID)
	if err != nil {
		return err
	}

	if err := s.CampaignRepo.Delete(ctx, id); err != nil {
		return s.internal("delete campaign", err, zap.String("campaign_id", id), zap.String("tenant_id", tenantID))
	}

	s.publish(ctx, queue.CampaignDeleted, current)
	return nil
}

func (s *CampaignService) findOwned(ctx context.Context, op, id, tenantID string) (*model.Campaign, error) {
	c, err := s.CampaignRepo.FindForTenant(ctx, id, tenantID)
	if err != nil {
		return nil, s.internal(op, err, zap.String("campaign_id", id), zap.String("tenant_id", tenantID))
	}
	if c == nil {
		return nil, appErrors.NewNotFound(msgCampaignNotFound)
	}
	return c, nil
}

// publish never fails the request; the mutation is already committed.
func (s *CampaignService) publish(ctx context.Context, eventType string, c *model.Campaign) {
	if s.Publisher == nil {
		return
	}
	topic := s.EventsTopic
	if topic == "" {
		topic = queue.CampaignEventsTopic
	}

	event := queue.NewCampaignEvent(eventType, c)
	if err := s.Publisher.Publish(context.WithoutCancel(ctx), topic, event); err != nil {
		metrics.CampaignEventsTotal.WithLabelValues(eventType, "error").Inc()
		s.logger().Warn("failed to publish campaign event",
			zap.String("type", eventType),
			zap.String("campaign_id", c.ID),
			zap.Error(err))
		return
	}
	metrics.CampaignEventsTotal.WithLabelValues(eventType, "ok").Inc()
}

func (s *CampaignService) internal(op string, err error, fields ...zap.Field) error {
	s.logger().Error(op+" failed", append(fields, zap.Error(err))...)
	return appErrors.NewInternal(err)
}

func (s *CampaignService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
