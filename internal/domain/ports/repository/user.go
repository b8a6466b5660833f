package repository

import (
	"context"

	"hh-offerbot/internal/domain/model"
)

// SeenUpdate is the payload of the idempotent "user was seen" upsert.
// UTM fields are first-write-wins.
type SeenUpdate struct {
	TgID        int64
	Username    *string
	Ref         *string
	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
}

type UserRepository interface {
	// UpsertSeen creates the user on first contact and refreshes last_seen;
	// returns the internal id.
	UpsertSeen(ctx context.Context, tx Tx, upd SeenUpdate) (int64, error)

	FindByID(ctx context.Context, tx Tx, id int64) (*model.User, error)
	FindByTgID(ctx context.Context, tx Tx, tgID int64) (*model.User, error)
	FindByRefCode(ctx context.Context, tx Tx, code string) (*model.User, error)

	// FindByIDForUpdate locks the row; must be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, tx Tx, id int64) (*model.User, error)

	SetHHIdentity(ctx context.Context, tx Tx, userID int64, accountID, fullName string) error
	ClearHHIdentity(ctx context.Context, tx Tx, userID int64) error

	// SetRefCode assigns a referral code; fails with ErrConflict if taken.
	SetRefCode(ctx context.Context, tx Tx, userID int64, code string) error
	// SetPendingRef stores the code the user arrived with (first write wins).
	SetPendingRef(ctx context.Context, tx Tx, userID int64, code string) error
	// SetReferredBy attaches a parent only when none is set yet; reports
	// whether the row changed.
	SetReferredBy(ctx context.Context, tx Tx, userID, parentID int64) (bool, error)

	TgIDByUserID(ctx context.Context, tx Tx, userID int64) (int64, error)
	AllTgIDs(ctx context.Context, tx Tx) ([]int64, error)
}
