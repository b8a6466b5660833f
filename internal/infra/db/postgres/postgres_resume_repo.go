package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
)

var _ repository.ResumeRepository = (*PostgresResumeRepo)(nil)

type PostgresResumeRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresResumeRepo(pool *pgxpool.Pool) *PostgresResumeRepo {
	return &PostgresResumeRepo{pool: pool}
}

// UpsertBatch replaces the cached snapshot set with the remote listing and
// drops rows that no longer exist remotely.
func (r *PostgresResumeRepo) UpsertBatch(ctx context.Context, tx repository.Tx, userID int64, items []model.Resume) error {
	ids := make([]string, 0, len(items))
	titles := make([]string, 0, len(items))
	areas := make([]string, 0, len(items))
	visibles := make([]bool, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ResumeID)
		titles = append(titles, it.Title)
		areas = append(areas, it.Area)
		visibles = append(visibles, it.Visible)
	}

	const up = `
INSERT INTO resumes (user_id, resume_id, title, area, visible, updated_at)
SELECT $1, t.resume_id, t.title, t.area, t.visible, now()
  FROM unnest($2::text[], $3::text[], $4::text[], $5::bool[])
       AS t(resume_id, title, area, visible)
ON CONFLICT (user_id, resume_id) DO UPDATE SET
  title=EXCLUDED.title, area=EXCLUDED.area, visible=EXCLUDED.visible, updated_at=now();`
	if _, err := execSQL(ctx, r.pool, tx, up, userID, ids, titles, areas, visibles); err != nil {
		return err
	}
	_, err := execSQL(ctx, r.pool, tx,
		`DELETE FROM resumes WHERE user_id=$1 AND NOT (resume_id = ANY($2::text[]));`, userID, ids)
	return err
}

func (r *PostgresResumeRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Resume, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT user_id, resume_id, title, area, visible, updated_at FROM resumes WHERE user_id=$1 ORDER BY resume_id;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Resume
	for rows.Next() {
		var m model.Resume
		if err := rows.Scan(&m.UserID, &m.ResumeID, &m.Title, &m.Area, &m.Visible, &m.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *PostgresResumeRepo) Owns(ctx context.Context, tx repository.Tx, userID int64, resumeID string) (bool, error) {
	var ok bool
	err := pickRow(ctx, r.pool, tx,
		`SELECT EXISTS (SELECT 1 FROM resumes WHERE user_id=$1 AND resume_id=$2);`, userID, resumeID).Scan(&ok)
	return ok, err
}
