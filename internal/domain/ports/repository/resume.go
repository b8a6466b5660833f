package repository

import (
	"context"

	"hh-offerbot/internal/domain/model"
)

type ResumeRepository interface {
	UpsertBatch(ctx context.Context, tx Tx, userID int64, items []model.Resume) error
	ListByUser(ctx context.Context, tx Tx, userID int64) ([]*model.Resume, error)
	// Owns reports whether the résumé snapshot belongs to the user.
	Owns(ctx context.Context, tx Tx, userID int64, resumeID string) (bool, error)
}
