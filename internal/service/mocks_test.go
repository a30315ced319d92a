package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/unclebandit/mailcampaign-backend/internal/model"
)

type mockCampaignRepo struct {
	mock.Mock
}

func (m *mockCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.Status = model.CampaignStatusDraft
	}
	return args.Error(0)
}

func (m *mockCampaignRepo) FindForTenant(ctx context.Context, id, tenantID string) (*model.Campaign, error) {
	args := m.Called(ctx, id, tenantID)
	c, _ := args.Get(0).(*model.Campaign)
	return c, args.Error(1)
}

func (m *mockCampaignRepo) FindByTriple(ctx context.Context, tenantID, templateID string, scheduledAt *time.Time) (*model.Campaign, error) {
	args := m.Called(ctx, tenantID, templateID, scheduledAt)
	c, _ := args.Get(0).(*model.Campaign)
	return c, args.Error(1)
}

func (m *mockCampaignRepo) Update(ctx context.Context, id string, fields model.CampaignUpdate) (*model.Campaign, error) {
	args := m.Called(ctx, id, fields)
	c, _ := args.Get(0).(*model.Campaign)
	return c, args.Error(1)
}

func (m *mockCampaignRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCampaignRepo) GetDetails(ctx context.Context, id, tenantID string) (*model.CampaignDetails, error) {
	args := m.Called(ctx, id, tenantID)
	c, _ := args.Get(0).(*model.CampaignDetails)
	return c, args.Error(1)
}

func (m *mockCampaignRepo) ListByTenant(ctx context.Context, tenantID string) ([]model.CampaignDetails, error) {
	args := m.Called(ctx, tenantID)
	c, _ := args.Get(0).([]model.CampaignDetails)
	return c, args.Error(1)
}

func (m *mockCampaignRepo) ListForDashboard(ctx context.Context, tenantID string) ([]model.CampaignDetails, error) {
	args := m.Called(ctx, tenantID)
	c, _ := args.Get(0).([]model.CampaignDetails)
	return c, args.Error(1)
}

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) FindActiveTenant(ctx context.Context, id string) (*model.Tenant, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.Tenant)
	return t, args.Error(1)
}

func (m *mockTenantRepo) FindActiveTemplate(ctx context.Context, id, tenantID string) (*model.EmailTemplate, error) {
	args := m.Called(ctx, id, tenantID)
	t, _ := args.Get(0).(*model.EmailTemplate)
	return t, args.Error(1)
}

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) ListWithLatestVersion(ctx context.Context) ([]model.Plan, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]model.Plan)
	return p, args.Error(1)
}

// recordingPublisher keeps every published payload in order.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, payload)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
