package model

import "time"

type CampaignStatus string

const (
	CampaignStatusActive  CampaignStatus = "active"
	CampaignStatusStopped CampaignStatus = "stopped"
	// CampaignStatusErrored is set by the scheduler when a pass finds the
	// campaign unrunnable, e.g. its résumé no longer belongs to the user.
	CampaignStatusErrored CampaignStatus = "errored"
)

// HardDailyCap is the absolute upper bound on applications per user per MSK
// day regardless of tariff.
const HardDailyCap = 200

type Campaign struct {
	ID             int64
	UserID         int64
	Title          string
	SavedRequestID *int64
	ResumeID       string
	DailyLimit     int
	SentToday      int
	SentTotal      int
	Status         CampaignStatus
	StartedAt      *time.Time
	StoppedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CampaignJob is an active campaign joined with its saved request, as the
// scheduler consumes it.
type CampaignJob struct {
	CampaignID  int64
	UserID      int64
	ResumeID    string
	Title       string
	DailyLimit  int
	QueryParams string
	CoverLetter string
}
