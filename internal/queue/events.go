package queue

import (
	"time"

	"github.com/unclebandit/mailcampaign-backend/internal/model"
)

// CampaignEventsTopic is the default topic for campaign lifecycle events.
const CampaignEventsTopic = "campaign_events"

const (
	CampaignCreated = "campaign.created"
	CampaignUpdated = "campaign.updated"
	CampaignDeleted = "campaign.deleted"
)

// CampaignEvent is emitted after a campaign mutation has been committed.
type CampaignEvent struct {
	Type       string          `json:"type"`
	CampaignID string          `json:"campaignId"`
	TenantID   string          `json:"tenantId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Campaign   *model.Campaign `json:"campaign,omitempty"`
}

func NewCampaignEvent(eventType string, c *model.Campaign) CampaignEvent {
	return CampaignEvent{
		Type:       eventType,
		CampaignID: c.ID,
		TenantID:   c.TenantID,
		OccurredAt: time.Now().UTC(),
		Campaign:   c,
	}
}

// partitionKey keeps all events of one campaign on the same partition.
func partitionKey(payload any) []byte {
	switch e := payload.(type) {
	case CampaignEvent:
		return []byte(e.CampaignID)
	case *CampaignEvent:
		return []byte(e.CampaignID)
	}
	return nil
}
