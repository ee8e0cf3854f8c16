package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, password, name, is_admin, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, password, name, is_admin, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (email) DO NOTHING
RETURNING ` + userColumns
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	out, err := scanUser(r.DB.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, nullableString(user.Name), user.IsAdmin,
	))
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrAlreadyExists
	}
	return out, err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

// EnsureByEmail relies on the no-op update so RETURNING yields the existing row.
func (r *PGRepo) EnsureByEmail(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, password, name, is_admin, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (email) DO UPDATE SET updated_at = users.updated_at
RETURNING ` + userColumns
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return scanUser(r.DB.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, nullableString(user.Name), user.IsAdmin,
	))
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func scanUser(row *sql.Row) (User, error) {
	var user User
	var name sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&name,
		&user.IsAdmin,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.Name = name.String
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = user.CreatedAt
	}
	return user, nil
}

type PGSessionRepo struct {
	DB *sql.DB
}

func (r *PGSessionRepo) Create(ctx context.Context, session Session) error {
	const query = `
INSERT INTO sessions (id, user_id, token, expires_at, created_at)
VALUES ($1, $2, $3, $4, now())`
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, query, session.ID, session.UserID, session.TokenDigest, session.ExpiresAt)
	return err
}

func (r *PGSessionRepo) GetByToken(ctx context.Context, tokenDigest string) (Session, error) {
	const query = `
SELECT id, user_id, token, expires_at, created_at
FROM sessions
WHERE token = $1
LIMIT 1`
	var s Session
	err := r.DB.QueryRowContext(ctx, query, tokenDigest).Scan(&s.ID, &s.UserID, &s.TokenDigest, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return s, nil
}

func (r *PGSessionRepo) DeleteByToken(ctx context.Context, tokenDigest string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, tokenDigest)
	return err
}

func (r *PGSessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
