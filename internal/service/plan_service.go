package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/mailcampaign-backend/internal/errors"
	"github.com/unclebandit/mailcampaign-backend/internal/model"
	"github.com/unclebandit/mailcampaign-backend/internal/repository"
)

type PlanService struct {
	PlanRepo repository.PlanRepositoryInterface
	Log      *zap.Logger
}

// ListPlans returns every plan flattened against its latest version.
func (s *PlanService) ListPlans(ctx context.Context) ([]model.FlatPlan, error) {
	plans, err := s.PlanRepo.ListWithLatestVersion(ctx)
	if err != nil {
		s.Log.Error("list plans failed", zap.Error(err))
		return nil, appErrors.NewInternal(err)
	}

	flat, err := FlattenPlans(plans)
	if err != nil {
		s.Log.Error("flatten plans failed", zap.Error(err))
		return nil, appErrors.NewInternal(err)
	}
	return flat, nil
}
