package repository

import (
	"context"
	"time"

	"hh-offerbot/internal/domain/model"
)

// EnqueueBatch describes an atomic, conflict-skipping batch insert of
// applications for one user.
type EnqueueBatch struct {
	UserID      int64
	VacancyIDs  []int64
	ResumeID    string
	CoverLetter *string
	Kind        model.ApplicationKind
	CampaignID  *int64
}

type ApplicationRepository interface {
	// InsertBatch inserts all vacancy ids in one statement, skipping rows
	// that conflict on (user_id, vacancy_id); returns the number inserted.
	InsertBatch(ctx context.Context, tx Tx, b EnqueueBatch) (int, error)

	// ClaimDue takes the next batch of due work (queued with no/past
	// next_try_at, or retry due) ordered by id, skipping rows held by other
	// workers and leasing the claimed ones so they stay invisible until the
	// outcome is written. Atomic as a single statement; tx is optional.
	ClaimDue(ctx context.Context, tx Tx, now time.Time, limit int) ([]*model.Application, error)

	MarkSent(ctx context.Context, tx Tx, id int64, note *string) error
	MarkError(ctx context.Context, tx Tx, id int64, errText string, attemptCount *int) error
	MarkRetry(ctx context.Context, tx Tx, id int64, errText string, attemptCount int, nextTryAt time.Time) error
	// ParkUntil moves the row to retry without touching the attempt counter
	// (used for quota parking to the MSK day boundary).
	ParkUntil(ctx context.Context, tx Tx, id int64, until time.Time) error

	// ExistingVacancyIDs filters candidates down to those the user already
	// has an application for.
	ExistingVacancyIDs(ctx context.Context, tx Tx, userID int64, candidates []int64) (map[int64]struct{}, error)

	// CountCreatedBetween counts non-canceled applications created in
	// [from, to) for the quota view.
	CountCreatedBetween(ctx context.Context, tx Tx, userID int64, from, to time.Time) (int, error)

	CountByUser(ctx context.Context, tx Tx, userID int64) (int, error)

	// LastAutoCreatedAt returns the created_at of the newest auto application
	// of the campaign, or nil.
	LastAutoCreatedAt(ctx context.Context, tx Tx, campaignID int64) (*time.Time, error)

	FindByID(ctx context.Context, tx Tx, id int64) (*model.Application, error)
	ListByUser(ctx context.Context, tx Tx, userID int64, limit, offset int) ([]*model.Application, error)
}
