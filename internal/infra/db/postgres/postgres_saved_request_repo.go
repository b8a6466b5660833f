package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
)

var _ repository.SavedRequestRepository = (*PostgresSavedRequestRepo)(nil)

type PostgresSavedRequestRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSavedRequestRepo(pool *pgxpool.Pool) *PostgresSavedRequestRepo {
	return &PostgresSavedRequestRepo{pool: pool}
}

const savedRequestColumns = `
id, user_id, title, query, area, employment, schedule,
professional_roles, search_fields, cover_letter, query_params,
created_at, updated_at`

func scanSavedRequest(row pgx.Row) (*model.SavedRequest, error) {
	var m model.SavedRequest
	err := row.Scan(&m.ID, &m.UserID, &m.Title, &m.Query, &m.Area, &m.Employment, &m.Schedule,
		&m.ProfessionalRoles, &m.SearchFields, &m.CoverLetter, &m.QueryParams,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresSavedRequestRepo) Create(ctx context.Context, tx repository.Tx, req *model.SavedRequest) (int64, error) {
	const q = `
INSERT INTO saved_requests (
  user_id, title, query, area, employment, schedule,
  professional_roles, search_fields, cover_letter, query_params
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id;`
	var id int64
	err := pickRow(ctx, r.pool, tx, q,
		req.UserID, req.Title, req.Query, req.Area, req.Employment, req.Schedule,
		req.ProfessionalRoles, req.SearchFields, req.CoverLetter, req.QueryParams).Scan(&id)
	return id, err
}

func (r *PostgresSavedRequestRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.SavedRequest, error) {
	return scanSavedRequest(pickRow(ctx, r.pool, tx,
		`SELECT `+savedRequestColumns+` FROM saved_requests WHERE id=$1;`, id))
}

func (r *PostgresSavedRequestRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.SavedRequest, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT `+savedRequestColumns+` FROM saved_requests WHERE user_id=$1 ORDER BY id DESC;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.SavedRequest
	for rows.Next() {
		m, err := scanSavedRequest(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresSavedRequestRepo) Delete(ctx context.Context, tx repository.Tx, userID, id int64) error {
	tag, err := execSQL(ctx, r.pool, tx,
		`DELETE FROM saved_requests WHERE id=$1 AND user_id=$2;`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
