package model

import "time"

type ApplicationStatus string

const (
	ApplicationStatusQueued ApplicationStatus = "queued"
	ApplicationStatusSent   ApplicationStatus = "sent"
	ApplicationStatusRetry  ApplicationStatus = "retry"
	ApplicationStatusError  ApplicationStatus = "error"
)

type ApplicationKind string

const (
	ApplicationKindManual ApplicationKind = "manual"
	ApplicationKindAuto   ApplicationKind = "auto"
)

// Application is one unit of work: an intent to apply to one vacancy on
// behalf of one user. (user_id, vacancy_id) is unique.
type Application struct {
	ID           int64
	UserID       int64
	VacancyID    int64
	ResumeID     string
	CoverLetter  *string
	Kind         ApplicationKind
	Status       ApplicationStatus
	AttemptCount int
	NextTryAt    *time.Time
	Error        *string
	CampaignID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SentAt       *time.Time
}
