package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
)

var (
	_ repository.SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)
	_ repository.TariffRepository       = (*PostgresTariffRepo)(nil)
)

type PostgresSubscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriptionRepo(pool *pgxpool.Pool) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{pool: pool}
}

const subscriptionColumns = `
id, user_id, tariff_id, started_at, expires_at, status, source`

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var m model.Subscription
	err := row.Scan(&m.ID, &m.UserID, &m.TariffID, &m.StartedAt, &m.ExpiresAt, &m.Status, &m.Source)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresSubscriptionRepo) HasActivePaid(ctx context.Context, tx repository.Tx, userID int64, now time.Time) (bool, error) {
	var ok bool
	err := pickRow(ctx, r.pool, tx, `
SELECT EXISTS (
  SELECT 1 FROM subscriptions WHERE user_id=$1 AND status='active' AND expires_at > $2
);`, userID, now).Scan(&ok)
	return ok, err
}

func (r *PostgresSubscriptionRepo) CurrentForUser(ctx context.Context, tx repository.Tx, userID int64) (*model.Subscription, error) {
	return scanSubscription(pickRow(ctx, r.pool, tx, `
SELECT `+subscriptionColumns+`
  FROM subscriptions
 WHERE user_id=$1 AND status='active'
 ORDER BY expires_at DESC
 LIMIT 1;`, userID))
}

func (r *PostgresSubscriptionRepo) FindExpiringWithin(ctx context.Context, tx repository.Tx, now time.Time, within time.Duration) ([]*model.Subscription, error) {
	rows, err := queryRows(ctx, r.pool, tx, `
SELECT `+subscriptionColumns+`
  FROM subscriptions
 WHERE status='active' AND expires_at <= $1
 ORDER BY expires_at;`, now.Add(within))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Subscription
	for rows.Next() {
		m, err := scanSubscription(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresSubscriptionRepo) MarkExpired(ctx context.Context, tx repository.Tx, id int64) error {
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE subscriptions SET status='expired' WHERE id=$1;`, id)
	return err
}

// ExtendOrCreate stacks paid periods: the new expiry starts from whichever is
// later, now or the current expiry.
func (r *PostgresSubscriptionRepo) ExtendOrCreate(ctx context.Context, tx repository.Tx, userID, tariffID int64, periodDays int, now time.Time, source string) error {
	cur, err := r.CurrentForUser(ctx, tx, userID)
	switch {
	case err == nil:
		base := cur.ExpiresAt
		if base.Before(now) {
			base = now
		}
		_, err = execSQL(ctx, r.pool, tx, `
UPDATE subscriptions SET tariff_id=$2, expires_at=$3, source=$4 WHERE id=$1;`,
			cur.ID, tariffID, base.AddDate(0, 0, periodDays), source)
		return err
	case err == domain.ErrNotFound:
		_, err = execSQL(ctx, r.pool, tx, `
INSERT INTO subscriptions (user_id, tariff_id, started_at, expires_at, status, source)
VALUES ($1,$2,$3,$4,'active',$5);`,
			userID, tariffID, now, now.AddDate(0, 0, periodDays), source)
		return err
	default:
		return err
	}
}

type PostgresTariffRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresTariffRepo(pool *pgxpool.Pool) *PostgresTariffRepo {
	return &PostgresTariffRepo{pool: pool}
}

const tariffColumns = `
id, code, price_cents, period_days, ref_percent_l1, ref_percent_l2, ref_percent_l3, is_active`

func scanTariff(row pgx.Row) (*model.Tariff, error) {
	var m model.Tariff
	err := row.Scan(&m.ID, &m.Code, &m.PriceCents, &m.PeriodDays,
		&m.RefPercentL1, &m.RefPercentL2, &m.RefPercentL3, &m.IsActive)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresTariffRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Tariff, error) {
	return scanTariff(pickRow(ctx, r.pool, tx,
		`SELECT `+tariffColumns+` FROM tariffs WHERE code=$1;`, code))
}

func (r *PostgresTariffRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Tariff, error) {
	return scanTariff(pickRow(ctx, r.pool, tx,
		`SELECT `+tariffColumns+` FROM tariffs WHERE id=$1;`, id))
}
