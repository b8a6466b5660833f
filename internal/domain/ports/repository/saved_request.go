package repository

import (
	"context"

	"hh-offerbot/internal/domain/model"
)

type SavedRequestRepository interface {
	Create(ctx context.Context, tx Tx, r *model.SavedRequest) (int64, error)
	FindByID(ctx context.Context, tx Tx, id int64) (*model.SavedRequest, error)
	ListByUser(ctx context.Context, tx Tx, userID int64) ([]*model.SavedRequest, error)
	Delete(ctx context.Context, tx Tx, userID, id int64) error
}
