package service

import (
	"errors"
	"fmt"

	"github.com/unclebandit/mailcampaign-backend/internal/model"
)

// ErrPlanHasNoVersion is returned when the price of a plan is read but the
// plan carries no version. Every other version field tolerates the absence.
var ErrPlanHasNoVersion = errors.New("plan has no version to read basePriceCents from")

// FlattenPlan projects the plan's first version onto top-level fields.
// For a plan without versions it returns the partially filled record together
// with ErrPlanHasNoVersion.
func FlattenPlan(p model.Plan) (model.FlatPlan, error) {
	flat := model.FlatPlan{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Components:  model.Components{},
	}

	if len(p.Versions) == 0 {
		return flat, ErrPlanHasNoVersion
	}

	v := p.Versions[0]
	flat.VersionID = nonZero(v.ID)
	flat.Version = nonZero(v.Version)
	flat.Zone = nonZero(v.Zone)
	flat.Bucket = nonZero(v.Bucket)
	flat.Cadence = nonZero(v.Cadence)
	if v.Components != nil {
		flat.Components = v.Components
	}

	price := v.BasePriceCents
	flat.BasePriceCents = &price
	return flat, nil
}

// FlattenPlans flattens plans in order and stops at the first plan without a version.
func FlattenPlans(plans []model.Plan) ([]model.FlatPlan, error) {
	out := make([]model.FlatPlan, 0, len(plans))
	for _, p := range plans {
		flat, err := FlattenPlan(p)
		if err != nil {
			return nil, fmt.Errorf("flatten plan %s: %w", p.ID, err)
		}
		out = append(out, flat)
	}
	return out, nil
}

func nonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
