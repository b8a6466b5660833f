package repository

import (
	"context"

	"hh-offerbot/internal/domain/model"
)

type TokenRepository interface {
	// Upsert replaces any prior token for the user.
	Upsert(ctx context.Context, tx Tx, t *model.HHToken) error
	FindByUserID(ctx context.Context, tx Tx, userID int64) (*model.HHToken, error)
	Delete(ctx context.Context, tx Tx, userID int64) error
}
