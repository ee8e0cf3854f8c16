package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var userCols = []string{"id", "email", "password", "name", "is_admin", "created_at", "updated_at"}

func TestPGRepoCreateMapsConflictToAlreadyExists(t *testing.T) {
	db, mock := newMock(t)
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u1", "ada@example.com", "hash", nil, false).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.Create(context.Background(), User{ID: "u1", Email: "ada@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := &PGRepo{DB: db}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "ada@example.com", "hash", nil, true, now, nil))

	user, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "", user.Name)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, now, user.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := (&PGRepo{DB: db}).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGSessionRepoRoundTrip(t *testing.T) {
	db, mock := newMock(t)
	repo := &PGSessionRepo{DB: db}
	exp := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("s1", "u1", "digest", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs("digest").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
			AddRow("s1", "u1", "digest", exp, exp.Add(-time.Hour)))
	mock.ExpectExec("DELETE FROM sessions WHERE expires_at").
		WithArgs(exp).
		WillReturnResult(sqlmock.NewResult(0, 3))

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, Session{ID: "s1", UserID: "u1", TokenDigest: "digest", ExpiresAt: exp}))
	s, err := repo.GetByToken(ctx, "digest")
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)
	n, err := repo.DeleteExpired(ctx, exp)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
