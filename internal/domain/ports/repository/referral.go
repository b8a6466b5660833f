package repository

import (
	"context"

	"hh-offerbot/internal/domain/model"
)

type ReferralRepository interface {
	// InsertEdge materializes one referral edge under ON CONFLICT DO NOTHING.
	InsertEdge(ctx context.Context, tx Tx, userID, parentID int64, level int) error

	CountByLevel(ctx context.Context, tx Tx, parentID int64) (l1, l2, l3 int, err error)

	// Uplines returns the ancestors of userID keyed by level (1..3).
	Uplines(ctx context.Context, tx Tx, userID int64) (map[int]int64, error)

	Stats(ctx context.Context, tx Tx, userID int64) (*model.ReferralStats, error)

	// AddBonus appends a BONUS ledger row and bumps the referral balance.
	AddBonus(ctx context.Context, tx Tx, userID int64, amountCents int64, description string) error
}
