package repository

import (
	"context"
	"time"

	"hh-offerbot/internal/domain/model"
)

// CampaignCounters is the locked daily-counter slice of a campaign row.
type CampaignCounters struct {
	DailyLimit int
	SentToday  int
}

type CampaignRepository interface {
	Upsert(ctx context.Context, tx Tx, c *model.Campaign) (int64, error)
	FindByIDForUser(ctx context.Context, tx Tx, userID, id int64) (*model.Campaign, error)
	ListByUser(ctx context.Context, tx Tx, userID int64, limit, offset int) ([]*model.Campaign, int, error)

	// Start activates the campaign. The partial unique index on
	// campaigns(user_id) WHERE status='active' turns a second activation into
	// ErrActiveCampaignExists.
	Start(ctx context.Context, tx Tx, userID, id int64) error
	Stop(ctx context.Context, tx Tx, userID, id int64) error
	Delete(ctx context.Context, tx Tx, userID, id int64) error

	// MarkErrored takes the campaign out of rotation when a scheduler pass
	// finds it unrunnable.
	MarkErrored(ctx context.Context, tx Tx, id int64) error

	// ActiveJobs returns active campaigns joined with their saved request.
	ActiveJobs(ctx context.Context, tx Tx) ([]*model.CampaignJob, error)
	JobByID(ctx context.Context, tx Tx, userID, id int64) (*model.CampaignJob, error)

	// LockCounters locks the row and returns the daily counters, lazily
	// resetting sent_today when the stored counter day precedes todayMSK.
	LockCounters(ctx context.Context, tx Tx, id int64, todayMSK time.Time) (*CampaignCounters, error)
	// BumpSent atomically adds n to sent_today and sent_total.
	BumpSent(ctx context.Context, tx Tx, id int64, n int) error
}
