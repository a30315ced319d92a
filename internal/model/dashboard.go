// internal/model/dashboard.go
package model

import "time"

type Dashboard struct {
	Summary   DashboardSummary `json:"summary"`
	Campaigns []CampaignCard   `json:"campaigns"`
}

type DashboardSummary struct {
	TotalCampaigns  int `json:"totalCampaigns"`
	TotalEmailsSent int `json:"totalEmailsSent"`
	AvgOpenRate     int `json:"avgOpenRate"`
	AvgReplyRate    int `json:"avgReplyRate"`
}

type CampaignCard struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	TotalLeads  int        `json:"totalLeads"`
	EmailsSent  int        `json:"emailsSent"`
	OpenRate    int        `json:"openRate"`
	ReplyRate   int        `json:"replyRate"`
}
