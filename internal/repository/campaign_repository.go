package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/unclebandit/mailcampaign-backend/internal/model"
)

const (
	campaignsTable     = "email_campaigns"
	emailLogsTable     = "email_logs"
	campaignLeadsTable = "campaign_leads"

	uniqueViolation = "23505"
)

// ErrDuplicateCampaign is returned by Create when the store rejects a second
// campaign with the same tenant, template and scheduled time.
var ErrDuplicateCampaign = errors.New("campaign already exists for tenant, template and scheduled time")

var campaignColumns = []string{"id", "tenant_id", "template_id", "scheduled_at", "status", "created_at", "updated_at"}

type CampaignRepositoryInterface interface {
	// Campaign CRUD
	Create(ctx context.Context, c *model.Campaign) error
	FindForTenant(ctx context.Context, id, tenantID string) (*model.Campaign, error)
	FindByTriple(ctx context.Context, tenantID, templateID string, scheduledAt *time.Time) (*model.Campaign, error)
	Update(ctx context.Context, id string, fields model.CampaignUpdate) (*model.Campaign, error)
	Delete(ctx context.Context, id string) error

	// Reads with relations
	GetDetails(ctx context.Context, id, tenantID string) (*model.CampaignDetails, error)
	ListByTenant(ctx context.Context, tenantID string) ([]model.CampaignDetails, error)
	ListForDashboard(ctx context.Context, tenantID string) ([]model.CampaignDetails, error)
}

type CampaignRepository struct {
	DB *sqlx.DB
}

// ====================== Campaign CRUD ======================

// Create inserts the campaign's id, tenant, template and schedule; status and
// timestamps come back from the column defaults.
func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(campaignsTable).
		Cols("id", "tenant_id", "template_id", "scheduled_at").
		Values(c.ID, c.TenantID, c.TemplateID, c.ScheduledAt)
	ib.SQL("RETURNING status, created_at, updated_at")

	query, args := ib.Build()
	err := r.DB.QueryRowxContext(ctx, query, args...).Scan(&c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateCampaign
		}
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// FindForTenant returns nil, nil when no campaign with that id belongs to tenantID.
func (r *CampaignRepository) FindForTenant(ctx context.Context, id, tenantID string) (*model.Campaign, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(campaignColumns...).
		From(campaignsTable).
		Where(sb.Equal("id", id), sb.Equal("tenant_id", tenantID))

	return r.getOne(ctx, sb)
}

// FindByTriple matches scheduled_at exactly, NULL included.
func (r *CampaignRepository) FindByTriple(ctx context.Context, tenantID, templateID string, scheduledAt *time.Time) (*model.Campaign, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(campaignColumns...).
		From(campaignsTable).
		Where(
			sb.Equal("tenant_id", tenantID),
			sb.Equal("template_id", templateID),
			"scheduled_at IS NOT DISTINCT FROM "+sb.Var(scheduledAt),
		)

	return r.getOne(ctx, sb)
}

// Update applies fields as-is and bumps updated_at. Column names must already
// be whitelisted by the caller.
func (r *CampaignRepository) Update(ctx context.Context, id string, fields model.CampaignUpdate) (*model.Campaign, error) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	assignments := make([]string, 0, len(cols)+1)
	for _, col := range cols {
		assignments = append(assignments, ub.Assign(col, fields[col]))
	}
	assignments = append(assignments, "updated_at = NOW()")

	ub.Update(campaignsTable).
		Set(assignments...).
		Where(ub.Equal("id", id))
	ub.SQL("RETURNING " + strings.Join(campaignColumns, ", "))

	query, args := ub.Build()
	var c model.Campaign
	if err := r.DB.QueryRowxContext(ctx, query, args...).StructScan(&c); err != nil {
		return nil, fmt.Errorf("update campaign %s: %w", id, err)
	}
	return &c, nil
}

// Delete removes the row. Logs and leads are left to the foreign keys.
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	delb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	delb.DeleteFrom(campaignsTable).Where(delb.Equal("id", id))

	query, args := delb.Build()
	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete campaign %s: %w", id, err)
	}
	return nil
}

// ====================== Reads with relations ======================

// GetDetails loads one tenant-owned campaign with its template and logs.
func (r *CampaignRepository) GetDetails(ctx context.Context, id, tenantID string) (*model.CampaignDetails, error) {
	c, err := r.FindForTenant(ctx, id, tenantID)
	if err != nil || c == nil {
		return nil, err
	}

	details, err := r.withRelations(ctx, []model.Campaign{*c}, false)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListByTenant returns the tenant's campaigns newest first, with template and logs.
func (r *CampaignRepository) ListByTenant(ctx context.Context, tenantID string) ([]model.CampaignDetails, error) {
	campaigns, err := r.listByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return r.withRelations(ctx, campaigns, false)
}

// ListForDashboard is ListByTenant plus campaign leads.
func (r *CampaignRepository) ListForDashboard(ctx context.Context, tenantID string) ([]model.CampaignDetails, error) {
	campaigns, err := r.listByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return r.withRelations(ctx, campaigns, true)
}

func (r *CampaignRepository) listByTenant(ctx context.Context, tenantID string) ([]model.Campaign, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(campaignColumns...).
		From(campaignsTable).
		Where(sb.Equal("tenant_id", tenantID)).
		OrderBy("created_at").Desc()

	query, args := sb.Build()
	campaigns := []model.Campaign{}
	if err := r.DB.SelectContext(ctx, &campaigns, query, args...); err != nil {
		return nil, fmt.Errorf("list campaigns for tenant %s: %w", tenantID, err)
	}
	return campaigns, nil
}

func (r *CampaignRepository) withRelations(ctx context.Context, campaigns []model.Campaign, withLeads bool) ([]model.CampaignDetails, error) {
	details := make([]model.CampaignDetails, len(campaigns))
	if len(campaigns) == 0 {
		return details, nil
	}

	campaignIDs := make([]string, 0, len(campaigns))
	templateIDs := make([]string, 0, len(campaigns))
	seenTemplates := map[string]bool{}
	for _, c := range campaigns {
		campaignIDs = append(campaignIDs, c.ID)
		if !seenTemplates[c.TemplateID] {
			seenTemplates[c.TemplateID] = true
			templateIDs = append(templateIDs, c.TemplateID)
		}
	}

	templates := []model.EmailTemplate{}
	if err := r.selectAny(ctx, &templates, templateColumns, templatesTable, "id", templateIDs, ""); err != nil {
		return nil, fmt.Errorf("load campaign templates: %w", err)
	}
	templatesByID := make(map[string]*model.EmailTemplate, len(templates))
	for i := range templates {
		templatesByID[templates[i].ID] = &templates[i]
	}

	logs := []model.EmailLog{}
	logColumns := []string{"id", "campaign_id", "status", "created_at"}
	if err := r.selectAny(ctx, &logs, logColumns, emailLogsTable, "campaign_id", campaignIDs, "created_at"); err != nil {
		return nil, fmt.Errorf("load campaign logs: %w", err)
	}
	logsByCampaign := map[string][]model.EmailLog{}
	for _, l := range logs {
		logsByCampaign[l.CampaignID] = append(logsByCampaign[l.CampaignID], l)
	}

	leadsByCampaign := map[string][]model.CampaignLead{}
	if withLeads {
		leads := []model.CampaignLead{}
		leadColumns := []string{"id", "campaign_id", "lead_id", "created_at"}
		if err := r.selectAny(ctx, &leads, leadColumns, campaignLeadsTable, "campaign_id", campaignIDs, "created_at"); err != nil {
			return nil, fmt.Errorf("load campaign leads: %w", err)
		}
		for _, l := range leads {
			leadsByCampaign[l.CampaignID] = append(leadsByCampaign[l.CampaignID], l)
		}
	}

	for i, c := range campaigns {
		d := model.CampaignDetails{
			Campaign: c,
			Template: templatesByID[c.TemplateID],
			Logs:     logsByCampaign[c.ID],
		}
		if d.Logs == nil {
			d.Logs = []model.EmailLog{}
		}
		if withLeads {
			d.CampaignLeads = leadsByCampaign[c.ID]
			if d.CampaignLeads == nil {
				d.CampaignLeads = []model.CampaignLead{}
			}
		}
		details[i] = d
	}
	return details, nil
}

// selectAny runs SELECT cols FROM table WHERE key = ANY($1) [ORDER BY orderBy].
func (r *CampaignRepository) selectAny(ctx context.Context, dest any, cols []string, table, key string, ids []string, orderBy string) error {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(cols...).
		From(table).
		Where(key + " = ANY(" + sb.Var(pq.Array(ids)) + ")")
	if orderBy != "" {
		sb.OrderBy(orderBy).Asc()
	}

	query, args := sb.Build()
	return r.DB.SelectContext(ctx, dest, query, args...)
}

func (r *CampaignRepository) getOne(ctx context.Context, sb *sqlbuilder.SelectBuilder) (*model.Campaign, error) {
	query, args := sb.Build()
	var c model.Campaign
	if err := r.DB.GetContext(ctx, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
