package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Shynif/nuit-de-linfo-2025/internal/setting/entity"
)

// Repo reads and writes the per-account settings held on the users table.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// Get returns the settings of user id, or sql.ErrNoRows.
func (r *Repo) Get(ctx context.Context, id string) (*entity.AccountSettings, error) {
	const q = `SELECT name, public FROM users WHERE id=$1`
	var st entity.AccountSettings
	if err := r.db.GetContext(ctx, &st, q, id); err != nil {
		return nil, err
	}
	return &st, nil
}

// SetPublic updates leaderboard visibility and returns the number of rows affected.
func (r *Repo) SetPublic(ctx context.Context, id string, public bool) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET public=$2, updated_at=NOW() WHERE id=$1`, id, public)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
