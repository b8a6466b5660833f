package repository

import (
	"context"
	"time"

	"hh-offerbot/internal/domain/model"
)

type NotificationRepository interface {
	Enqueue(ctx context.Context, tx Tx, userID *int64, scope, text string, scheduledAt time.Time) (int64, error)

	// ClaimPendingDue takes pending notifications with scheduled_at <= now,
	// skipping rows held by other workers and leasing the claimed ones so a
	// parallel worker cannot deliver them twice. Atomic as a single
	// statement; tx is optional.
	ClaimPendingDue(ctx context.Context, tx Tx, now time.Time, limit int) ([]*model.Notification, error)

	MarkSent(ctx context.Context, tx Tx, id int64) error
	MarkFailed(ctx context.Context, tx Tx, id int64, errText string) error

	// ExistsSince reports whether the user already has a notification whose
	// text contains marker, created at or after since, in a live status.
	ExistsSince(ctx context.Context, tx Tx, userID int64, marker string, since time.Time) (bool, error)

	// InsertSubscriptionMarker inserts the (subscription_id, kind) marker row
	// under ON CONFLICT DO NOTHING and reports whether a row was created.
	InsertSubscriptionMarker(ctx context.Context, tx Tx, subscriptionID int64, kind model.SubscriptionNotificationKind) (bool, error)

	// SegmentTgIDs resolves a predefined segment key to messenger ids.
	SegmentTgIDs(ctx context.Context, tx Tx, key string) ([]int64, error)
}
