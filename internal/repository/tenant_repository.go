package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/mailcampaign-backend/internal/model"
)

const (
	tenantsTable   = "tenants"
	templatesTable = "email_templates"
)

var templateColumns = []string{"id", "tenant_id", "name", "subject", "body", "created_at", "updated_at", "deleted_at"}

// TenantRepositoryInterface defines the tenant and template lookups used by the campaign service
type TenantRepositoryInterface interface {
	FindActiveTenant(ctx context.Context, id string) (*model.Tenant, error)
	FindActiveTemplate(ctx context.Context, id, tenantID string) (*model.EmailTemplate, error)
}

type TenantRepository struct {
	DB *sqlx.DB
}

// FindActiveTenant returns the tenant unless it is missing or soft-deleted, in which case it returns nil, nil.
func (r *TenantRepository) FindActiveTenant(ctx context.Context, id string) (*model.Tenant, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "name", "created_at", "updated_at", "deleted_at").
		From(tenantsTable).
		Where(sb.Equal("id", id), sb.IsNull("deleted_at"))

	query, args := sb.Build()
	var t model.Tenant
	if err := r.DB.GetContext(ctx, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// FindActiveTemplate returns the template only if it belongs to tenantID and is not soft-deleted.
func (r *TenantRepository) FindActiveTemplate(ctx context.Context, id, tenantID string) (*model.EmailTemplate, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(templateColumns...).
		From(templatesTable).
		Where(sb.Equal("id", id), sb.Equal("tenant_id", tenantID), sb.IsNull("deleted_at"))

	query, args := sb.Build()
	var t model.EmailTemplate
	if err := r.DB.GetContext(ctx, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

var _ TenantRepositoryInterface = (*TenantRepository)(nil)
