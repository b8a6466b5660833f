package repository

import (
	"context"
	"time"

	"hh-offerbot/internal/domain/model"
)

type SubscriptionRepository interface {
	// HasActivePaid reports whether the user holds an active subscription
	// with now < expires_at.
	HasActivePaid(ctx context.Context, tx Tx, userID int64, now time.Time) (bool, error)

	CurrentForUser(ctx context.Context, tx Tx, userID int64) (*model.Subscription, error)

	// FindExpiringWithin returns active or already-expired-but-unmarked
	// subscriptions with expires_at <= now + within.
	FindExpiringWithin(ctx context.Context, tx Tx, now time.Time, within time.Duration) ([]*model.Subscription, error)

	MarkExpired(ctx context.Context, tx Tx, id int64) error

	// ExtendOrCreate extends the user's active subscription by periodDays
	// starting from max(now, current expires_at), or creates a new active one.
	ExtendOrCreate(ctx context.Context, tx Tx, userID, tariffID int64, periodDays int, now time.Time, source string) error
}

type TariffRepository interface {
	FindByCode(ctx context.Context, tx Tx, code string) (*model.Tariff, error)
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Tariff, error)
}
