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

var _ repository.ApplicationRepository = (*PostgresApplicationRepo)(nil)

type PostgresApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresApplicationRepo(pool *pgxpool.Pool) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{pool: pool}
}

const applicationColumns = `
id, user_id, vacancy_id, resume_id, cover_letter, kind, status,
attempt_count, next_try_at, error, campaign_id, created_at, updated_at, sent_at`

func scanApplication(row pgx.Row) (*model.Application, error) {
	var m model.Application
	err := row.Scan(&m.ID, &m.UserID, &m.VacancyID, &m.ResumeID, &m.CoverLetter, &m.Kind, &m.Status,
		&m.AttemptCount, &m.NextTryAt, &m.Error, &m.CampaignID, &m.CreatedAt, &m.UpdatedAt, &m.SentAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// InsertBatch writes every candidate in one statement; rows colliding on
// (user_id, vacancy_id) are skipped so re-polling the same search is free.
func (r *PostgresApplicationRepo) InsertBatch(ctx context.Context, tx repository.Tx, b repository.EnqueueBatch) (int, error) {
	if len(b.VacancyIDs) == 0 {
		return 0, nil
	}
	const q = `
INSERT INTO applications (user_id, vacancy_id, resume_id, cover_letter, kind, campaign_id)
SELECT $1, v, $3, $4, $5, $6 FROM unnest($2::bigint[]) AS v
ON CONFLICT (user_id, vacancy_id) DO NOTHING;`
	tag, err := execSQL(ctx, r.pool, tx, q,
		b.UserID, b.VacancyIDs, b.ResumeID, b.CoverLetter, b.Kind, b.CampaignID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// claimLease is how long a claimed row stays invisible to other workers
// after the claim statement commits. Any outcome write clears it; a crashed
// worker's rows simply become due again.
const claimLease = 2 * time.Minute

// ClaimDue locks the next batch of due rows and pushes their next_try_at
// forward by the claim lease, all in one atomic statement. The caller then
// performs the slow HH call without any open transaction.
func (r *PostgresApplicationRepo) ClaimDue(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Application, error) {
	const q = `
WITH due AS (
  SELECT id
    FROM applications
   WHERE (status = 'queued' AND (next_try_at IS NULL OR next_try_at <= $1))
      OR (status = 'retry' AND next_try_at <= $1)
   ORDER BY id
   LIMIT $2
   FOR UPDATE SKIP LOCKED
)
UPDATE applications a
   SET next_try_at = $3, updated_at = now()
  FROM due
 WHERE a.id = due.id
RETURNING a.id, a.user_id, a.vacancy_id, a.resume_id, a.cover_letter, a.kind, a.status,
          a.attempt_count, a.next_try_at, a.error, a.campaign_id, a.created_at, a.updated_at, a.sent_at;`
	rows, err := queryRows(ctx, r.pool, tx, q, now, limit, now.Add(claimLease))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Application
	for rows.Next() {
		m, err := scanApplication(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresApplicationRepo) MarkSent(ctx context.Context, tx repository.Tx, id int64, note *string) error {
	_, err := execSQL(ctx, r.pool, tx, `
UPDATE applications
   SET status='sent', sent_at=now(), error=$2, next_try_at=NULL, updated_at=now()
 WHERE id=$1;`, id, note)
	return err
}

func (r *PostgresApplicationRepo) MarkError(ctx context.Context, tx repository.Tx, id int64, errText string, attemptCount *int) error {
	_, err := execSQL(ctx, r.pool, tx, `
UPDATE applications
   SET status='error', error=$2,
       attempt_count=COALESCE($3, attempt_count),
       next_try_at=NULL, updated_at=now()
 WHERE id=$1;`, id, errText, attemptCount)
	return err
}

func (r *PostgresApplicationRepo) MarkRetry(ctx context.Context, tx repository.Tx, id int64, errText string, attemptCount int, nextTryAt time.Time) error {
	_, err := execSQL(ctx, r.pool, tx, `
UPDATE applications
   SET status='retry', error=$2, attempt_count=$3, next_try_at=$4, updated_at=now()
 WHERE id=$1;`, id, errText, attemptCount, nextTryAt)
	return err
}

// ParkUntil defers the row without spending an attempt; used when the daily
// quota runs out mid-batch.
func (r *PostgresApplicationRepo) ParkUntil(ctx context.Context, tx repository.Tx, id int64, until time.Time) error {
	_, err := execSQL(ctx, r.pool, tx, `
UPDATE applications SET status='retry', next_try_at=$2, updated_at=now() WHERE id=$1;`, id, until)
	return err
}

func (r *PostgresApplicationRepo) ExistingVacancyIDs(ctx context.Context, tx repository.Tx, userID int64, candidates []int64) (map[int64]struct{}, error) {
	if len(candidates) == 0 {
		return map[int64]struct{}{}, nil
	}
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT vacancy_id FROM applications WHERE user_id=$1 AND vacancy_id = ANY($2::bigint[]);`,
		userID, candidates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]struct{})
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[v] = struct{}{}
	}
	return out, rows.Err()
}

func (r *PostgresApplicationRepo) CountCreatedBetween(ctx context.Context, tx repository.Tx, userID int64, from, to time.Time) (int, error) {
	var n int
	err := pickRow(ctx, r.pool, tx,
		`SELECT COUNT(*) FROM applications WHERE user_id=$1 AND created_at >= $2 AND created_at < $3;`,
		userID, from, to).Scan(&n)
	return n, err
}

func (r *PostgresApplicationRepo) CountByUser(ctx context.Context, tx repository.Tx, userID int64) (int, error) {
	var n int
	err := pickRow(ctx, r.pool, tx,
		`SELECT COUNT(*) FROM applications WHERE user_id=$1;`, userID).Scan(&n)
	return n, err
}

func (r *PostgresApplicationRepo) LastAutoCreatedAt(ctx context.Context, tx repository.Tx, campaignID int64) (*time.Time, error) {
	var t *time.Time
	err := pickRow(ctx, r.pool, tx,
		`SELECT MAX(created_at) FROM applications WHERE campaign_id=$1 AND kind='auto';`, campaignID).Scan(&t)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresApplicationRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Application, error) {
	return scanApplication(pickRow(ctx, r.pool, tx,
		`SELECT `+applicationColumns+` FROM applications WHERE id=$1;`, id))
}

func (r *PostgresApplicationRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64, limit, offset int) ([]*model.Application, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id=$1 ORDER BY id DESC LIMIT $2 OFFSET $3;`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Application
	for rows.Next() {
		m, err := scanApplication(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
