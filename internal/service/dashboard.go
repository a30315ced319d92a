package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/mailcampaign-backend/internal/errors"
	"github.com/unclebandit/mailcampaign-backend/internal/model"
)

// GetDashboard aggregates send, open and reply counts per campaign and for the
// tenant as a whole. An unknown tenant yields an empty, zeroed dashboard.
func (s *CampaignService) GetDashboard(ctx context.Context, tenantID string) (*model.Dashboard, error) {
	campaigns, err := s.CampaignRepo.ListForDashboard(ctx, tenantID)
	if err != nil {
		s.logger().Error("campaign dashboard failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, appErrors.NewInternal(err)
	}
	return BuildDashboard(campaigns), nil
}

// BuildDashboard is the pure aggregation behind GetDashboard. Summary rates
// are weighted by emails sent, not averaged per campaign.
func BuildDashboard(campaigns []model.CampaignDetails) *model.Dashboard {
	d := &model.Dashboard{Campaigns: make([]model.CampaignCard, 0, len(campaigns))}

	var totalSent, totalOpened, totalReplied int
	for _, c := range campaigns {
		var sent, opened, replied int
		for _, l := range c.Logs {
			switch l.Status {
			case model.EmailLogStatusSent:
				sent++
			case model.EmailLogStatusOpened:
				opened++
			case model.EmailLogStatusReplied:
				replied++
			}
		}
		totalSent += sent
		totalOpened += opened
		totalReplied += replied

		card := model.CampaignCard{
			ID:          c.ID,
			Status:      c.Status,
			ScheduledAt: c.ScheduledAt,
			TotalLeads:  len(c.CampaignLeads),
			EmailsSent:  sent,
			OpenRate:    percent(opened, sent),
			ReplyRate:   percent(replied, sent),
		}
		if c.Template != nil {
			card.Name = c.Template.Name
		}
		d.Campaigns = append(d.Campaigns, card)
	}

	d.Summary = model.DashboardSummary{
		TotalCampaigns:  len(campaigns),
		TotalEmailsSent: totalSent,
		AvgOpenRate:     percent(totalOpened, totalSent),
		AvgReplyRate:    percent(totalReplied, totalSent),
	}
	return d
}

// percent rounds part/whole*100 half-up; a zero whole gives 0.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)/float64(whole)*100 + 0.5))
}
