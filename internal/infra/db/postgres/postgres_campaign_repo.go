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

var _ repository.CampaignRepository = (*PostgresCampaignRepo)(nil)

type PostgresCampaignRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCampaignRepo(pool *pgxpool.Pool) *PostgresCampaignRepo {
	return &PostgresCampaignRepo{pool: pool}
}

const campaignColumns = `
id, user_id, title, saved_request_id, resume_id, daily_limit,
sent_today, sent_total, status, started_at, stopped_at, created_at, updated_at`

func scanCampaign(row pgx.Row) (*model.Campaign, error) {
	var m model.Campaign
	err := row.Scan(&m.ID, &m.UserID, &m.Title, &m.SavedRequestID, &m.ResumeID, &m.DailyLimit,
		&m.SentToday, &m.SentTotal, &m.Status, &m.StartedAt, &m.StoppedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresCampaignRepo) Upsert(ctx context.Context, tx repository.Tx, c *model.Campaign) (int64, error) {
	if c.ID == 0 {
		const q = `
INSERT INTO campaigns (user_id, title, saved_request_id, resume_id, daily_limit)
VALUES ($1,$2,$3,$4,$5)
RETURNING id;`
		var id int64
		err := pickRow(ctx, r.pool, tx, q, c.UserID, c.Title, c.SavedRequestID, c.ResumeID, c.DailyLimit).Scan(&id)
		return id, err
	}
	const q = `
UPDATE campaigns SET title=$3, saved_request_id=$4, resume_id=$5, daily_limit=$6, updated_at=now()
 WHERE id=$1 AND user_id=$2;`
	tag, err := execSQL(ctx, r.pool, tx, q, c.ID, c.UserID, c.Title, c.SavedRequestID, c.ResumeID, c.DailyLimit)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, domain.ErrNotFound
	}
	return c.ID, nil
}

func (r *PostgresCampaignRepo) FindByIDForUser(ctx context.Context, tx repository.Tx, userID, id int64) (*model.Campaign, error) {
	return scanCampaign(pickRow(ctx, r.pool, tx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id=$1 AND user_id=$2;`, id, userID))
}

func (r *PostgresCampaignRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64, limit, offset int) ([]*model.Campaign, int, error) {
	var total int
	if err := pickRow(ctx, r.pool, tx,
		`SELECT COUNT(*) FROM campaigns WHERE user_id=$1;`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE user_id=$1 ORDER BY id DESC LIMIT $2 OFFSET $3;`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []*model.Campaign
	for rows.Next() {
		m, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *PostgresCampaignRepo) Start(ctx context.Context, tx repository.Tx, userID, id int64) error {
	const q = `
UPDATE campaigns SET status='active', started_at=now(), stopped_at=NULL, updated_at=now()
 WHERE id=$1 AND user_id=$2 AND status <> 'active';`
	tag, err := execSQL(ctx, r.pool, tx, q, id, userID)
	if isUniqueViolation(err) {
		return domain.ErrActiveCampaignExists
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresCampaignRepo) Stop(ctx context.Context, tx repository.Tx, userID, id int64) error {
	const q = `
UPDATE campaigns SET status='stopped', stopped_at=now(), updated_at=now()
 WHERE id=$1 AND user_id=$2;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresCampaignRepo) MarkErrored(ctx context.Context, tx repository.Tx, id int64) error {
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE campaigns SET status='errored', stopped_at=now(), updated_at=now() WHERE id=$1;`, id)
	return err
}

func (r *PostgresCampaignRepo) Delete(ctx context.Context, tx repository.Tx, userID, id int64) error {
	tag, err := execSQL(ctx, r.pool, tx,
		`DELETE FROM campaigns WHERE id=$1 AND user_id=$2;`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const campaignJobSelect = `
SELECT c.id, c.user_id, c.resume_id, c.title, c.daily_limit,
       COALESCE(sr.query_params, ''), COALESCE(sr.cover_letter, '')
  FROM campaigns c
  LEFT JOIN saved_requests sr ON sr.id = c.saved_request_id`

func scanCampaignJob(row pgx.Row) (*model.CampaignJob, error) {
	var j model.CampaignJob
	err := row.Scan(&j.CampaignID, &j.UserID, &j.ResumeID, &j.Title, &j.DailyLimit,
		&j.QueryParams, &j.CoverLetter)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *PostgresCampaignRepo) ActiveJobs(ctx context.Context, tx repository.Tx) ([]*model.CampaignJob, error) {
	rows, err := queryRows(ctx, r.pool, tx, campaignJobSelect+` WHERE c.status='active' ORDER BY c.id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.CampaignJob
	for rows.Next() {
		j, err := scanCampaignJob(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *PostgresCampaignRepo) JobByID(ctx context.Context, tx repository.Tx, userID, id int64) (*model.CampaignJob, error) {
	return scanCampaignJob(pickRow(ctx, r.pool, tx,
		campaignJobSelect+` WHERE c.id=$1 AND c.user_id=$2;`, id, userID))
}

// LockCounters takes the row lock and lazily rolls sent_today over to the
// current MSK day. Callers must hold a transaction.
func (r *PostgresCampaignRepo) LockCounters(ctx context.Context, tx repository.Tx, id int64, todayMSK time.Time) (*repository.CampaignCounters, error) {
	day := todayMSK.Format("2006-01-02")
	var c repository.CampaignCounters
	var counterDay *string
	err := pickRow(ctx, r.pool, tx,
		`SELECT daily_limit, sent_today, to_char(sent_today_date, 'YYYY-MM-DD') FROM campaigns WHERE id=$1 FOR UPDATE;`, id).
		Scan(&c.DailyLimit, &c.SentToday, &counterDay)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if counterDay == nil || *counterDay != day {
		if _, err := execSQL(ctx, r.pool, tx,
			`UPDATE campaigns SET sent_today=0, sent_today_date=$2::date WHERE id=$1;`, id, day); err != nil {
			return nil, err
		}
		c.SentToday = 0
	}
	return &c, nil
}

func (r *PostgresCampaignRepo) BumpSent(ctx context.Context, tx repository.Tx, id int64, n int) error {
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE campaigns SET sent_today=sent_today+$2, sent_total=sent_total+$2, updated_at=now() WHERE id=$1;`,
		id, n)
	return err
}
