package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/mailcampaign-backend/internal/model"
)

// PlanRepositoryInterface defines the plan reads used by PlanService
type PlanRepositoryInterface interface {
	ListWithLatestVersion(ctx context.Context) ([]model.Plan, error)
}

type PlanRepository struct {
	DB *sqlx.DB
}

type planRow struct {
	ID             string           `db:"id"`
	Name           string           `db:"name"`
	Code           string           `db:"code"`
	Description    *string          `db:"description"`
	CreatedAt      time.Time        `db:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at"`
	VersionID      *string          `db:"version_id"`
	BasePriceCents *int64           `db:"base_price_cents"`
	Version        *int             `db:"version"`
	Zone           *string          `db:"zone"`
	Bucket         *string          `db:"bucket"`
	Cadence        *string          `db:"cadence"`
	Components     model.Components `db:"components"`
}

// ListWithLatestVersion returns every plan with at most one version attached:
// the one with the highest version number. Plans without versions come back
// with an empty Versions slice.
func (r *PlanRepository) ListWithLatestVersion(ctx context.Context) ([]model.Plan, error) {
	query := `
        SELECT p.id, p.name, p.code, p.description, p.created_at, p.updated_at,
               v.id AS version_id, v.base_price_cents, v.version, v.zone, v.bucket, v.cadence, v.components
        FROM plans p
        LEFT JOIN LATERAL (
            SELECT pv.id, pv.base_price_cents, pv.version, pv.zone, pv.bucket, pv.cadence, pv.components
            FROM plan_versions pv
            WHERE pv.plan_id = p.id
            ORDER BY pv.version DESC
            LIMIT 1
        ) v ON TRUE
        ORDER BY p.created_at DESC
    `

	rows := []planRow{}
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	plans := make([]model.Plan, 0, len(rows))
	for _, row := range rows {
		p := model.Plan{
			ID:          row.ID,
			Name:        row.Name,
			Code:        row.Code,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
			Versions:    []model.PlanVersion{},
		}
		if row.VersionID != nil {
			v := model.PlanVersion{
				ID:         *row.VersionID,
				PlanID:     row.ID,
				Components: row.Components,
			}
			if row.BasePriceCents != nil {
				v.BasePriceCents = *row.BasePriceCents
			}
			if row.Version != nil {
				v.Version = *row.Version
			}
			if row.Zone != nil {
				v.Zone = *row.Zone
			}
			if row.Bucket != nil {
				v.Bucket = *row.Bucket
			}
			if row.Cadence != nil {
				v.Cadence = *row.Cadence
			}
			p.Versions = append(p.Versions, v)
		}
		plans = append(plans, p)
	}
	return plans, nil
}

var _ PlanRepositoryInterface = (*PlanRepository)(nil)
