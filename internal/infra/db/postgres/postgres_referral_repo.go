package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
)

var _ repository.ReferralRepository = (*PostgresReferralRepo)(nil)

type PostgresReferralRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresReferralRepo(pool *pgxpool.Pool) *PostgresReferralRepo {
	return &PostgresReferralRepo{pool: pool}
}

func (r *PostgresReferralRepo) InsertEdge(ctx context.Context, tx repository.Tx, userID, parentID int64, level int) error {
	_, err := execSQL(ctx, r.pool, tx, `
INSERT INTO referrals (user_id, parent_user_id, level)
VALUES ($1,$2,$3)
ON CONFLICT (user_id, parent_user_id, level) DO NOTHING;`, userID, parentID, level)
	return err
}

func (r *PostgresReferralRepo) CountByLevel(ctx context.Context, tx repository.Tx, parentID int64) (int, int, int, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT level, COUNT(*) FROM referrals WHERE parent_user_id=$1 GROUP BY level;`, parentID)
	if err != nil {
		return 0, 0, 0, err
	}
	defer rows.Close()
	var l1, l2, l3 int
	for rows.Next() {
		var level, n int
		if err := rows.Scan(&level, &n); err != nil {
			return 0, 0, 0, domain.ErrReadDatabaseRow
		}
		switch level {
		case 1:
			l1 = n
		case 2:
			l2 = n
		case 3:
			l3 = n
		}
	}
	return l1, l2, l3, rows.Err()
}

func (r *PostgresReferralRepo) Uplines(ctx context.Context, tx repository.Tx, userID int64) (map[int]int64, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT level, parent_user_id FROM referrals WHERE user_id=$1;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int]int64, 3)
	for rows.Next() {
		var level int
		var parent int64
		if err := rows.Scan(&level, &parent); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[level] = parent
	}
	return out, rows.Err()
}

func (r *PostgresReferralRepo) Stats(ctx context.Context, tx repository.Tx, userID int64) (*model.ReferralStats, error) {
	l1, l2, l3, err := r.CountByLevel(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	var income, balance int64
	err = pickRow(ctx, r.pool, tx, `
SELECT COALESCE((SELECT SUM(amount_cents) FROM referral_ledger WHERE user_id=$1 AND kind='BONUS'), 0),
       (SELECT ref_balance_cents FROM users WHERE id=$1);`, userID).Scan(&income, &balance)
	if err != nil {
		return nil, err
	}
	return &model.ReferralStats{
		Level1: l1, Level2: l2, Level3: l3,
		IncomeCents: income, BalanceCents: balance,
	}, nil
}

func (r *PostgresReferralRepo) AddBonus(ctx context.Context, tx repository.Tx, userID int64, amountCents int64, description string) error {
	if _, err := execSQL(ctx, r.pool, tx, `
INSERT INTO referral_ledger (user_id, amount_cents, kind, description)
VALUES ($1,$2,'BONUS',$3);`, userID, amountCents, description); err != nil {
		return err
	}
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE users SET ref_balance_cents = ref_balance_cents + $2 WHERE id=$1;`, userID, amountCents)
	return err
}
