package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
)

var _ repository.TokenRepository = (*PostgresTokenRepo)(nil)

type PostgresTokenRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresTokenRepo(pool *pgxpool.Pool) *PostgresTokenRepo {
	return &PostgresTokenRepo{pool: pool}
}

func (r *PostgresTokenRepo) Upsert(ctx context.Context, tx repository.Tx, t *model.HHToken) error {
	const q = `
INSERT INTO hh_tokens (user_id, access_token, refresh_token, token_type, expires_at, updated_at)
VALUES ($1,$2,$3,$4,$5,now())
ON CONFLICT (user_id) DO UPDATE SET
  access_token=$2, refresh_token=$3, token_type=$4, expires_at=$5, updated_at=now();`
	_, err := execSQL(ctx, r.pool, tx, q, t.UserID, t.AccessToken, t.RefreshToken, t.TokenType, t.ExpiresAt)
	return err
}

func (r *PostgresTokenRepo) FindByUserID(ctx context.Context, tx repository.Tx, userID int64) (*model.HHToken, error) {
	const q = `
SELECT user_id, access_token, refresh_token, token_type, expires_at, updated_at
  FROM hh_tokens WHERE user_id=$1;`
	var t model.HHToken
	err := pickRow(ctx, r.pool, tx, q, userID).
		Scan(&t.UserID, &t.AccessToken, &t.RefreshToken, &t.TokenType, &t.ExpiresAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresTokenRepo) Delete(ctx context.Context, tx repository.Tx, userID int64) error {
	_, err := execSQL(ctx, r.pool, tx, `DELETE FROM hh_tokens WHERE user_id=$1;`, userID)
	return err
}
