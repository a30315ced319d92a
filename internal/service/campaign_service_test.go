package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/mailcampaign-backend/internal/errors"
	"github.com/unclebandit/mailcampaign-backend/internal/model"
	"github.com/unclebandit/mailcampaign-backend/internal/queue"
	"github.com/unclebandit/mailcampaign-backend/internal/repository"
)

type fixture struct {
	svc       *CampaignService
	campaigns *mockCampaignRepo
	tenants   *mockTenantRepo
	events    *recordingPublisher
}

func newFixture() *fixture {
	f := &fixture{
		campaigns: &mockCampaignRepo{},
		tenants:   &mockTenantRepo{},
		events:    &recordingPublisher{},
	}
	f.svc = &CampaignService{
		CampaignRepo: f.campaigns,
		TenantRepo:   f.tenants,
		Publisher:    f.events,
		Log:          zap.NewNop(),
	}
	return f
}

var ctx = context.Background()

func assertAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, status, appErrors.StatusCode(err))
	assert.Equal(t, message, appErrors.Message(err))
}

func TestCreateCampaign_MissingInput(t *testing.T) {
	cases := []CreateCampaignInput{
		{TemplateID: "tpl-1"},
		{TenantID: "t-1"},
		{},
	}
	for _, in := range cases {
		f := newFixture()
		_, err := f.svc.CreateCampaign(ctx, in)

		assertAppError(t, err, http.StatusBadRequest, "tenantId and templateId are required")
		f.tenants.AssertNotCalled(t, "FindActiveTenant", mock.Anything, mock.Anything)
		f.campaigns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestCreateCampaign_TenantNotFound(t *testing.T) {
	f := newFixture()
	f.tenants.On("FindActiveTenant", ctx, "t-1").Return(nil, nil)

	_, err := f.svc.CreateCampaign(ctx, CreateCampaignInput{TenantID: "t-1", TemplateID: "tpl-1"})

	assertAppError(t, err, http.StatusNotFound, "Tenant not found")
	f.campaigns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.events.events)
}

func TestCreateCampaign_TemplateOfOtherTenant(t *testing.T) {
	f := newFixture()
	f.tenants.On("FindActiveTenant", ctx, "t-1").Return(&model.Tenant{ID: "t-1"}, nil)
	f.tenants.On("FindActiveTemplate", ctx, "tpl-9", "t-1").Return(nil, nil)

	_, err := f.svc.CreateCampaign(ctx, CreateCampaignInput{TenantID: "t-1", TemplateID: "tpl-9"})

	assertAppError(t, err, http.StatusNotFound, "Template not found or does not belong to tenant")
	f.campaigns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCampaign_DuplicateTriple(t *testing.T) {
	f := newFixture()
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	f.tenants.On("FindActiveTenant", ctx, "t-1").Return(&model.Tenant{ID: "t-1"}, nil)
	f.tenants.On("FindActiveTemplate", ctx, "tpl-1", "t-1").Return(&model.EmailTemplate{ID: "tpl-1"}, nil)
	f.campaigns.On("FindByTriple", ctx, "t-1", "tpl-1", &at).Return(&model.Campaign{ID: "c-0"}, nil)

	_, err := f.svc.CreateCampaign(ctx, CreateCampaignInput{TenantID: "t-1", TemplateID: "tpl-1", ScheduledAt: &at})

	assertAppError(t, err, http.StatusConflict, "Campaign is already scheduled with the same tenant, template, and scheduled time")
	f.campaigns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCampaign_InsertRaceIsConflict(t *testing.T) {
	f := newFixture()
	f.tenants.On("FindActiveTenant", ctx, "t-1").Return(&model.Tenant{ID: "t-1"}, nil)
	f.tenants.On("FindActiveTemplate", ctx, "tpl-1", "t-1").Return(&model.EmailTemplate{ID: "tpl-1"}, nil)
	f.campaigns.On("FindByTriple", ctx, "t-1", "tpl-1", (*time.Time)(nil)).Return(nil, nil)
	f.campaigns.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateCampaign)

	_, err := f.svc.CreateCampaign(ctx, CreateCampaignInput{TenantID: "t-1", TemplateID: "tpl-1"})

	assertAppError(t, err, http.StatusConflict, "Campaign is already scheduled with the same tenant, template, and scheduled time")
	assert.Empty(t, f.events.events)
}

func TestCreateCampaign_Success(t *testing.T) {
	f := newFixture()
	f.tenants.On("FindActiveTenant", ctx, "t-1").Return(&model.Tenant{ID: "t-1"}, nil)
	f.tenants.On("FindActiveTemplate", ctx, "tpl-1", "t-1").Return(&model.EmailTemplate{ID: "tpl-1"}, nil)
	f.campaigns.On("FindByTriple", ctx, "t-1", "tpl-1", (*time.Time)(nil)).Return(nil, nil)
	f.campaigns.On("Create", ctx, mock.MatchedBy(func(c *model.Campaign) bool {
		return c.TenantID == "t-1" && c.TemplateID == "tpl-1" && c.ScheduledAt == nil && c.ID != ""
	})).Return(nil)

	c, err := f.svc.CreateCampaign(ctx, CreateCampaignInput{TenantID: "t-1", TemplateID: "tpl-1"})

	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusDraft, c.Status)
	assert.Len(t, c.ID, 36)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, queue.CampaignEventsTopic, f.events.topics[0])
	event := f.events.events[0].(queue.CampaignEvent)
	assert.Equal(t, queue.CampaignCreated, event.Type)
	assert.Equal(t, c.ID, event.CampaignID)
	f.campaigns.AssertExpectations(t)
}

func TestCreateCampaign_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("broker down")
	f.tenants.On("FindActiveTenant", ctx, "t-1").Return(&model.Tenant{ID: "t-1"}, nil)
	f.tenants.On("FindActiveTemplate", ctx, "tpl-1", "t-1").Return(&model.EmailTemplate{ID: "tpl-1"}, nil)
	f.campaigns.On("FindByTriple", ctx, "t-1", "tpl-1", (*time.Time)(nil)).Return(nil, nil)
	f.campaigns.On("Create", ctx, mock.Anything).Return(nil)

	c, err := f.svc.CreateCampaign(ctx, CreateCampaignInput{TenantID: "t-1", TemplateID: "tpl-1"})

	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCreateCampaign_StoreFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.tenants.On("FindActiveTenant", ctx, "t-1").Return(nil, errors.New("db down"))

	_, err := f.svc.CreateCampaign(ctx, CreateCampaignInput{TenantID: "t-1", TemplateID: "tpl-1"})

	assertAppError(t, err, http.StatusInternalServerError, "Internal server error")
	assert.NotContains(t, appErrors.Message(err), "db down")
}

func TestListCampaigns(t *testing.T) {
	t.Run("missing tenant", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ListCampaigns(ctx, "")
		assertAppError(t, err, http.StatusBadRequest, "tenantId is required")
	})

	t.Run("no campaigns is an empty slice", func(t *testing.T) {
		f := newFixture()
		f.campaigns.On("ListByTenant", ctx, "t-1").Return(nil, nil)

		campaigns, err := f.svc.ListCampaigns(ctx, "t-1")

		require.NoError(t, err)
		assert.NotNil(t, campaigns)
		assert.Empty(t, campaigns)
	})
}

func TestGetCampaign_WrongTenantIsNotFound(t *testing.T) {
	f := newFixture()
	f.campaigns.On("GetDetails", ctx, "c-1", "t-2").Return(nil, nil)

	_, err := f.svc.GetCampaign(ctx, "c-1", "t-2")

	assertAppError(t, err, http.StatusNotFound, "Campaign not found or does not belong to tenant")
}

func TestUpdateCampaign(t *testing.T) {
	owned := &model.Campaign{ID: "c-1", TenantID: "t-1", TemplateID: "tpl-1", Status: model.CampaignStatusDraft}

	t.Run("not owned", func(t *testing.T) {
		f := newFixture()
		f.campaigns.On("FindForTenant", ctx, "c-1", "t-2").Return(nil, nil)

		_, err := f.svc.UpdateCampaign(ctx, "c-1", "t-2", map[string]any{"status": "ACTIVE"})

		assertAppError(t, err, http.StatusNotFound, "Campaign not found or does not belong to tenant")
		f.campaigns.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown field", func(t *testing.T) {
		f := newFixture()
		f.campaigns.On("FindForTenant", ctx, "c-1", "t-1").Return(owned, nil)

		_, err := f.svc.UpdateCampaign(ctx, "c-1", "t-1", map[string]any{"status": "ACTIVE", "id": "other"})

		assertAppError(t, err, http.StatusBadRequest, "unknown field: id")
		f.campaigns.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty update returns current", func(t *testing.T) {
		f := newFixture()
		f.campaigns.On("FindForTenant", ctx, "c-1", "t-1").Return(owned, nil)

		c, err := f.svc.UpdateCampaign(ctx, "c-1", "t-1", map[string]any{})

		require.NoError(t, err)
		assert.Same(t, owned, c)
		f.campaigns.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.events.events)
	})

	t.Run("maps keys to columns", func(t *testing.T) {
		f := newFixture()
		updated := &model.Campaign{ID: "c-1", TenantID: "t-1", TemplateID: "tpl-2", Status: "ACTIVE"}
		f.campaigns.On("FindForTenant", ctx, "c-1", "t-1").Return(owned, nil)
		f.campaigns.On("Update", ctx, "c-1", model.CampaignUpdate{
			"status":      "ACTIVE",
			"template_id": "tpl-2",
		}).Return(updated, nil)

		c, err := f.svc.UpdateCampaign(ctx, "c-1", "t-1", map[string]any{"status": "ACTIVE", "templateId": "tpl-2"})

		require.NoError(t, err)
		assert.Equal(t, "tpl-2", c.TemplateID)
		require.Len(t, f.events.events, 1)
		assert.Equal(t, queue.CampaignUpdated, f.events.events[0].(queue.CampaignEvent).Type)
		f.campaigns.AssertExpectations(t)
	})
}

func TestDeleteCampaign(t *testing.T) {
	t.Run("not owned", func(t *testing.T) {
		f := newFixture()
		f.campaigns.On("FindForTenant", ctx, "c-1", "t-2").Return(nil, nil)

		err := f.svc.DeleteCampaign(ctx, "c-1", "t-2")

		assertAppError(t, err, http.StatusNotFound, "Campaign not found or does not belong to tenant")
		f.campaigns.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes and publishes", func(t *testing.T) {
		f := newFixture()
		f.campaigns.On("FindForTenant", ctx, "c-1", "t-1").Return(&model.Campaign{ID: "c-1", TenantID: "t-1"}, nil)
		f.campaigns.On("Delete", ctx, "c-1").Return(nil)

		require.NoError(t, f.svc.DeleteCampaign(ctx, "c-1", "t-1"))

		require.Len(t, f.events.events, 1)
		assert.Equal(t, queue.CampaignDeleted, f.events.events[0].(queue.CampaignEvent).Type)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture()
		f.campaigns.On("FindForTenant", ctx, "c-1", "t-1").Return(&model.Campaign{ID: "c-1", TenantID: "t-1"}, nil)
		f.campaigns.On("Delete", ctx, "c-1").Return(errors.New("fk violation"))

		err := f.svc.DeleteCampaign(ctx, "c-1", "t-1")

		assertAppError(t, err, http.StatusInternalServerError, "Internal server error")
		assert.Empty(t, f.events.events)
	})
}
