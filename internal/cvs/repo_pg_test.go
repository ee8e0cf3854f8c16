package cvs

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cvCols = []string{"id", "user_id", "title", "personal_info", "education", "experience", "skills", "is_paid", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPGRepoCreateEncodesJSONColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := &PGRepo{DB: db}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	doc := sampleDoc("Backend")

	mock.ExpectQuery("INSERT INTO cvs").
		WithArgs("cv1", "u1", "Backend",
			[]byte(`{"fullName":"Ada Lovelace","email":"ada@example.com","phone":"0971234567"}`),
			[]byte(`[]`), sqlmock.AnyArg(), []byte(`[" Go ","go","","SQL"]`), true).
		WillReturnRows(sqlmock.NewRows(cvCols).AddRow(
			"cv1", "u1", "Backend",
			[]byte(`{"fullName":"Ada Lovelace","email":"ada@example.com","phone":"0971234567"}`),
			[]byte(`[]`), []byte(`[]`), []byte(`["Go","SQL"]`), true, now, now,
		))

	cv, err := repo.Create(context.Background(), CV{ID: "cv1", UserID: "u1", Title: "Backend", CV: doc.CV, IsPaid: true})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", cv.PersonalInfo.FullName)
	assert.Equal(t, []string{"Go", "SQL"}, cv.Skills)
	assert.NotNil(t, cv.Education)
	assert.True(t, cv.IsPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM cvs WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("cv1", "u2").
		WillReturnError(sql.ErrNoRows)

	_, err := (&PGRepo{DB: db}).Get(context.Background(), "u2", "cv1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListToleratesNullLists(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM cvs\\s+WHERE user_id = \\$1\\s+ORDER BY created_at DESC").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cvCols).
			AddRow("cv2", "u1", "Second", []byte(`{}`), nil, nil, nil, true, now, now).
			AddRow("cv1", "u1", "First", []byte(`{}`), []byte(`[]`), []byte(`[]`), []byte(`["Go"]`), false, now, now))

	list, err := (&PGRepo{DB: db}).List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "cv2", list[0].ID)
	assert.Equal(t, []string{}, list[0].Skills)
	assert.Equal(t, []string{"Go"}, list[1].Skills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("DELETE FROM cvs").
		WithArgs("cv1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := (&PGRepo{DB: db}).Delete(context.Background(), "u1", "cv1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoStats(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\), COUNT\\(\\*\\) FILTER").
		WillReturnRows(sqlmock.NewRows([]string{"total", "paid"}).AddRow(7, 3))

	stats, err := (&PGRepo{DB: db}).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 7, Paid: 3}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoCreateFirstInsertsUnderUserLock(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))
	mock.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM cvs WHERE user_id = \\$1\\)").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO cvs").
		WillReturnRows(sqlmock.NewRows(cvCols).AddRow(
			"cv1", "u1", "Backend", []byte(`{}`), []byte(`[]`), []byte(`[]`), []byte(`[]`), false, now, now,
		))
	mock.ExpectCommit()

	cv, ok, err := (&PGRepo{DB: db}).CreateFirst(context.Background(), CV{ID: "cv1", UserID: "u1", Title: "Backend"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cv1", cv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoCreateFirstSkipsWhenUserHasCV(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, ok, err := (&PGRepo{DB: db}).CreateFirst(context.Background(), CV{UserID: "u1", Title: "Backend"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
