// internal/model/campaign.go
package model

import "time"

const (
	CampaignStatusDraft     = "DRAFT"
	CampaignStatusScheduled = "SCHEDULED"
	CampaignStatusActive    = "ACTIVE"
	CampaignStatusCompleted = "COMPLETED"
)

const (
	EmailLogStatusSent    = "SENT"
	EmailLogStatusOpened  = "OPENED"
	EmailLogStatusReplied = "REPLIED"
)

type Campaign struct {
	ID          string     `db:"id" json:"id"`
	TenantID    string     `db:"tenant_id" json:"tenantId"`
	TemplateID  string     `db:"template_id" json:"templateId"`
	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduledAt"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// CampaignDetails is a campaign with its relations loaded.
// CampaignLeads is only populated for the dashboard.
type CampaignDetails struct {
	Campaign
	Template      *EmailTemplate `json:"template"`
	Logs          []EmailLog     `json:"logs"`
	CampaignLeads []CampaignLead `json:"campaignLeads,omitempty"`
}

type EmailLog struct {
	ID         string    `db:"id" json:"id"`
	CampaignID string    `db:"campaign_id" json:"campaignId"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type CampaignLead struct {
	ID         string    `db:"id" json:"id"`
	CampaignID string    `db:"campaign_id" json:"campaignId"`
	LeadID     string    `db:"lead_id" json:"leadId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// CampaignUpdate holds the columns a partial update touches, keyed by column name.
type CampaignUpdate map[string]any
