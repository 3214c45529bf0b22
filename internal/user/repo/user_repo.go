package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Shynif/nuit-de-linfo-2025/internal/user/entity"
)

// ErrDuplicateName is returned by Create when the name is already taken.
var ErrDuplicateName = errors.New("duplicate user name")

const uniqueViolation = "23505"

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	const q = `INSERT INTO users (id, name, password, highscore, public)
		VALUES (:id, :name, :password, :highscore, :public)
		RETURNING created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, q, u)
	if err != nil {
		return mapInsertErr(err)
	}
	defer rows.Close()
	if rows.Next() {
		return rows.Scan(&u.CreatedAt, &u.UpdatedAt)
	}
	if err := rows.Err(); err != nil {
		return mapInsertErr(err)
	}
	return errors.New("no row returned")
}

func mapInsertErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateName
	}
	return err
}

// GetByName returns the user with the exact name, or nil when absent.
func (r *UserRepo) GetByName(ctx context.Context, name string) (*entity.User, error) {
	const q = `SELECT id, name, password, highscore, public, created_at, updated_at
		FROM users WHERE name=$1`
	return r.getUser(ctx, q, name)
}

func (r *UserRepo) getUser(ctx context.Context, q string, arg any) (*entity.User, error) {
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetSessionView fetches the projection attached to authenticated requests.
func (r *UserRepo) GetSessionView(ctx context.Context, id string) (*entity.SessionView, error) {
	const q = `SELECT id, name, public, highscore FROM users WHERE id=$1`
	var v entity.SessionView
	if err := r.db.GetContext(ctx, &v, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// UpdateHighscoreIfGreater raises the highscore when score beats it. found is
// false when the user does not exist.
func (r *UserRepo) UpdateHighscoreIfGreater(ctx context.Context, id string, score int) (found, raised bool, err error) {
	const q = `UPDATE users SET highscore=$2, updated_at=NOW() WHERE id=$1 AND highscore < $2`
	res, err := r.db.ExecContext(ctx, q, id, score)
	if err != nil {
		return false, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, false, err
	}
	if n > 0 {
		return true, true, nil
	}
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, id); err != nil {
		return false, false, err
	}
	return exists, false, nil
}

// ListLeaderboard returns visible users ordered by highscore, then name.
func (r *UserRepo) ListLeaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	q := `SELECT name, highscore FROM users WHERE public ORDER BY highscore DESC, name ASC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	out := []entity.LeaderboardEntry{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}
