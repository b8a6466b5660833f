package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"hh-offerbot/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*PostgresPaymentRepo)(nil)

type PostgresPaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPaymentRepo(pool *pgxpool.Pool) *PostgresPaymentRepo {
	return &PostgresPaymentRepo{pool: pool}
}

// UpsertPaid is the idempotency gate for webhook retries: only the call that
// first lands the paid row reports true, so the subscription extension and
// referral payout run exactly once.
func (r *PostgresPaymentRepo) UpsertPaid(ctx context.Context, tx repository.Tx, provider, providerID string, userID, tariffID int64, amountCents int64, description string, raw []byte) (bool, error) {
	const q = `
INSERT INTO payments (provider, provider_id, user_id, tariff_id, amount_cents, status, description, raw)
VALUES ($1,$2,$3,$4,$5,'paid',$6,$7)
ON CONFLICT (provider, provider_id) DO UPDATE SET
  user_id=EXCLUDED.user_id, tariff_id=EXCLUDED.tariff_id,
  amount_cents=EXCLUDED.amount_cents, status='paid',
  description=EXCLUDED.description, raw=EXCLUDED.raw
WHERE payments.status <> 'paid'
RETURNING id;`
	tag, err := execSQL(ctx, r.pool, tx, q, provider, providerID, userID, tariffID, amountCents, description, raw)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresPaymentRepo) UpsertFailed(ctx context.Context, tx repository.Tx, provider, providerID string, amountCents int64, raw []byte) error {
	const q = `
INSERT INTO payments (provider, provider_id, amount_cents, status, raw)
VALUES ($1,$2,$3,'failed',$4)
ON CONFLICT (provider, provider_id) DO NOTHING;`
	_, err := execSQL(ctx, r.pool, tx, q, provider, providerID, amountCents, raw)
	return err
}
