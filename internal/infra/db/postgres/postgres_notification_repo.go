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

var _ repository.NotificationRepository = (*PostgresNotificationRepo)(nil)

type PostgresNotificationRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresNotificationRepo(pool *pgxpool.Pool) *PostgresNotificationRepo {
	return &PostgresNotificationRepo{pool: pool}
}

const notificationColumns = `
id, user_id, scope, text, scheduled_at, sent_at, status, error, created_at, updated_at`

func scanNotification(row pgx.Row) (*model.Notification, error) {
	var m model.Notification
	err := row.Scan(&m.ID, &m.UserID, &m.Scope, &m.Text, &m.ScheduledAt, &m.SentAt,
		&m.Status, &m.Error, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresNotificationRepo) Enqueue(ctx context.Context, tx repository.Tx, userID *int64, scope, text string, scheduledAt time.Time) (int64, error) {
	var id int64
	err := pickRow(ctx, r.pool, tx, `
INSERT INTO notifications (user_id, scope, text, scheduled_at)
VALUES ($1,$2,$3,$4) RETURNING id;`, userID, scope, text, scheduledAt).Scan(&id)
	return id, err
}

// ClaimPendingDue claims and defers due rows in one statement, mirroring the
// application claim: the messenger send then runs without an open
// transaction, and a row whose worker died becomes due again on its own.
func (r *PostgresNotificationRepo) ClaimPendingDue(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Notification, error) {
	const q = `
WITH due AS (
  SELECT id
    FROM notifications
   WHERE status='pending' AND scheduled_at <= $1
   ORDER BY id
   LIMIT $2
   FOR UPDATE SKIP LOCKED
)
UPDATE notifications n
   SET scheduled_at = $3, updated_at = now()
  FROM due
 WHERE n.id = due.id
RETURNING n.id, n.user_id, n.scope, n.text, n.scheduled_at, n.sent_at, n.status, n.error, n.created_at, n.updated_at;`
	rows, err := queryRows(ctx, r.pool, tx, q, now, limit, now.Add(claimLease))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Notification
	for rows.Next() {
		m, err := scanNotification(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresNotificationRepo) MarkSent(ctx context.Context, tx repository.Tx, id int64) error {
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE notifications SET status='sent', sent_at=now(), updated_at=now() WHERE id=$1;`, id)
	return err
}

func (r *PostgresNotificationRepo) MarkFailed(ctx context.Context, tx repository.Tx, id int64, errText string) error {
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE notifications SET status='failed', error=$2, updated_at=now() WHERE id=$1;`, id, errText)
	return err
}

func (r *PostgresNotificationRepo) ExistsSince(ctx context.Context, tx repository.Tx, userID int64, marker string, since time.Time) (bool, error) {
	var ok bool
	err := pickRow(ctx, r.pool, tx, `
SELECT EXISTS (
  SELECT 1 FROM notifications
   WHERE user_id=$1 AND text LIKE '%' || $2 || '%'
     AND created_at >= $3 AND status IN ('pending','sent')
);`, userID, marker, since).Scan(&ok)
	return ok, err
}

func (r *PostgresNotificationRepo) InsertSubscriptionMarker(ctx context.Context, tx repository.Tx, subscriptionID int64, kind model.SubscriptionNotificationKind) (bool, error) {
	tag, err := execSQL(ctx, r.pool, tx, `
INSERT INTO subscription_notifications (subscription_id, kind)
VALUES ($1,$2) ON CONFLICT (subscription_id, kind) DO NOTHING;`, subscriptionID, string(kind))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SegmentTgIDs resolves the broadcast segment keys supported by the
// notification composer.
func (r *PostgresNotificationRepo) SegmentTgIDs(ctx context.Context, tx repository.Tx, key string) ([]int64, error) {
	var q string
	switch key {
	case "premium":
		q = `
SELECT u.tg_id FROM users u
 WHERE EXISTS (SELECT 1 FROM subscriptions s
                WHERE s.user_id=u.id AND s.status='active' AND s.expires_at > now());`
	case "no_subscription":
		q = `
SELECT u.tg_id FROM users u
 WHERE NOT EXISTS (SELECT 1 FROM subscriptions s
                    WHERE s.user_id=u.id AND s.status='active' AND s.expires_at > now());`
	case "active_30d":
		q = `SELECT tg_id FROM users WHERE last_seen_at >= now() - interval '30 days';`
	case "auto_responses", "ai_responses":
		q = `
SELECT DISTINCT u.tg_id FROM users u
  JOIN campaigns c ON c.user_id=u.id AND c.status='active';`
	default:
		return nil, domain.ErrInvalidArgument
	}
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
