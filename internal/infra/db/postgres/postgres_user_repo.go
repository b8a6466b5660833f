package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `
id, tg_id, username, hh_account_id, hh_account_name,
ref_code, ref, referred_by, utm_source, utm_medium, utm_campaign,
created_at, last_seen_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.TgID, &u.Username, &u.HHAccountID, &u.HHAccountName,
		&u.RefCode, &u.Ref, &u.ReferredBy, &u.UTMSource, &u.UTMMedium, &u.UTMCampaign,
		&u.CreatedAt, &u.LastSeenAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpsertSeen registers the user on first contact and refreshes last_seen_at
// on every later one. Ref and UTM fields are written only when still empty.
func (r *PostgresUserRepo) UpsertSeen(ctx context.Context, tx repository.Tx, upd repository.SeenUpdate) (int64, error) {
	const q = `
INSERT INTO users (tg_id, username, ref, utm_source, utm_medium, utm_campaign)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (tg_id) DO UPDATE SET
  username     = COALESCE($2, users.username),
  ref          = COALESCE(users.ref, $3),
  utm_source   = COALESCE(users.utm_source, $4),
  utm_medium   = COALESCE(users.utm_medium, $5),
  utm_campaign = COALESCE(users.utm_campaign, $6),
  last_seen_at = now()
RETURNING id;`
	var id int64
	row := pickRow(ctx, r.pool, tx, q, upd.TgID, upd.Username, upd.Ref, upd.UTMSource, upd.UTMMedium, upd.UTMCampaign)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert seen: %w", err)
	}
	return id, nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	return scanUser(pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE id=$1;`, id))
}

func (r *PostgresUserRepo) FindByTgID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	return scanUser(pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE tg_id=$1;`, tgID))
}

func (r *PostgresUserRepo) FindByRefCode(ctx context.Context, tx repository.Tx, code string) (*model.User, error) {
	return scanUser(pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE ref_code=$1;`, code))
}

func (r *PostgresUserRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	return scanUser(pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE id=$1 FOR UPDATE;`, id))
}

func (r *PostgresUserRepo) SetHHIdentity(ctx context.Context, tx repository.Tx, userID int64, accountID, fullName string) error {
	tag, err := execSQL(ctx, r.pool, tx,
		`UPDATE users SET hh_account_id=$2, hh_account_name=$3 WHERE id=$1;`,
		userID, accountID, fullName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) ClearHHIdentity(ctx context.Context, tx repository.Tx, userID int64) error {
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE users SET hh_account_id=NULL, hh_account_name=NULL WHERE id=$1;`, userID)
	return err
}

func (r *PostgresUserRepo) SetRefCode(ctx context.Context, tx repository.Tx, userID int64, code string) error {
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE users SET ref_code=$2 WHERE id=$1 AND ref_code IS NULL;`, userID, code)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *PostgresUserRepo) SetPendingRef(ctx context.Context, tx repository.Tx, userID int64, code string) error {
	_, err := execSQL(ctx, r.pool, tx,
		`UPDATE users SET ref=$2 WHERE id=$1 AND ref IS NULL;`, userID, code)
	return err
}

func (r *PostgresUserRepo) SetReferredBy(ctx context.Context, tx repository.Tx, userID, parentID int64) (bool, error) {
	tag, err := execSQL(ctx, r.pool, tx,
		`UPDATE users SET referred_by=$2 WHERE id=$1 AND referred_by IS NULL;`, userID, parentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresUserRepo) TgIDByUserID(ctx context.Context, tx repository.Tx, userID int64) (int64, error) {
	var tgID int64
	err := pickRow(ctx, r.pool, tx, `SELECT tg_id FROM users WHERE id=$1;`, userID).Scan(&tgID)
	if err == pgx.ErrNoRows {
		return 0, domain.ErrNotFound
	}
	return tgID, err
}

func (r *PostgresUserRepo) AllTgIDs(ctx context.Context, tx repository.Tx) ([]int64, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT tg_id FROM users ORDER BY id;`)
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
