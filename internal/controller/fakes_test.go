package controller_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/unclebandit/mailcampaign-backend/internal/model"
	"github.com/unclebandit/mailcampaign-backend/internal/repository"
)

// fakeStore is an in-memory stand-in for the tenant and campaign repositories.
type fakeStore struct {
	mu        sync.Mutex
	tenants   map[string]*model.Tenant
	templates map[string]*model.EmailTemplate
	campaigns map[string]*model.Campaign
	logs      map[string][]model.EmailLog
	clock     time.Time
	failWith  error
}

func newFakeStore() *fakeStore {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	deleted := now.Add(-time.Hour)
	return &fakeStore{
		tenants: map[string]*model.Tenant{
			"t-1":    {ID: "t-1", Name: "Acme"},
			"t-2":    {ID: "t-2", Name: "Globex"},
			"t-gone": {ID: "t-gone", Name: "Gone", DeletedAt: &deleted},
		},
		templates: map[string]*model.EmailTemplate{
			"tpl-1":    {ID: "tpl-1", TenantID: "t-1", Name: "Welcome"},
			"tpl-2":    {ID: "tpl-2", TenantID: "t-2", Name: "Promo"},
			"tpl-gone": {ID: "tpl-gone", TenantID: "t-1", Name: "Old", DeletedAt: &deleted},
		},
		campaigns: map[string]*model.Campaign{},
		logs:      map[string][]model.EmailLog{},
		clock:     now,
	}
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *fakeStore) FindActiveTenant(_ context.Context, id string) (*model.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	t, ok := s.tenants[id]
	if !ok || t.DeletedAt != nil {
		return nil, nil
	}
	return t, nil
}

func (s *fakeStore) FindActiveTemplate(_ context.Context, id, tenantID string) (*model.EmailTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok || t.TenantID != tenantID || t.DeletedAt != nil {
		return nil, nil
	}
	return t, nil
}

func sameSchedule(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (s *fakeStore) Create(_ context.Context, c *model.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.campaigns {
		if existing.TenantID == c.TenantID && existing.TemplateID == c.TemplateID && sameSchedule(existing.ScheduledAt, c.ScheduledAt) {
			return repository.ErrDuplicateCampaign
		}
	}
	now := s.tick()
	c.Status = model.CampaignStatusDraft
	c.CreatedAt, c.UpdatedAt = now, now
	stored := *c
	s.campaigns[c.ID] = &stored
	return nil
}

func (s *fakeStore) FindForTenant(_ context.Context, id, tenantID string) (*model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (s *fakeStore) FindByTriple(_ context.Context, tenantID, templateID string, scheduledAt *time.Time) (*model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.campaigns {
		if c.TenantID == tenantID && c.TemplateID == templateID && sameSchedule(c.ScheduledAt, scheduledAt) {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Update(_ context.Context, id string, fields model.CampaignUpdate) (*model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	for col, v := range fields {
		switch col {
		case "status":
			c.Status, _ = v.(string)
		case "template_id":
			c.TemplateID, _ = v.(string)
		case "scheduled_at":
			if v == nil {
				c.ScheduledAt = nil
				continue
			}
			ts, err := time.Parse(time.RFC3339, v.(string))
			if err != nil {
				return nil, err
			}
			c.ScheduledAt = &ts
		}
	}
	c.UpdatedAt = s.tick()
	out := *c
	return &out, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.campaigns, id)
	delete(s.logs, id)
	return nil
}

func (s *fakeStore) GetDetails(ctx context.Context, id, tenantID string) (*model.CampaignDetails, error) {
	c, err := s.FindForTenant(ctx, id, tenantID)
	if err != nil || c == nil {
		return nil, err
	}
	d := s.details(*c)
	return &d, nil
}

func (s *fakeStore) ListByTenant(_ context.Context, tenantID string) ([]model.CampaignDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	var list []model.Campaign
	for _, c := range s.campaigns {
		if c.TenantID == tenantID {
			list = append(list, *c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	out := make([]model.CampaignDetails, 0, len(list))
	for _, c := range list {
		out = append(out, s.details(c))
	}
	return out, nil
}

func (s *fakeStore) ListForDashboard(ctx context.Context, tenantID string) ([]model.CampaignDetails, error) {
	return s.ListByTenant(ctx, tenantID)
}

func (s *fakeStore) details(c model.Campaign) model.CampaignDetails {
	logs := s.logs[c.ID]
	if logs == nil {
		logs = []model.EmailLog{}
	}
	return model.CampaignDetails{Campaign: c, Template: s.templates[c.TemplateID], Logs: logs}
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.campaigns)
}

var (
	_ repository.CampaignRepositoryInterface = (*fakeStore)(nil)
	_ repository.TenantRepositoryInterface   = (*fakeStore)(nil)
)
