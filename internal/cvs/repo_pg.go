package cvs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mikemtdev/career-lift/resume/model"
)

type PGRepo struct {
	DB *sql.DB
}

const cvColumns = `id, user_id, title, personal_info, education, experience, skills, is_paid, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]CV, error) {
	const query = `SELECT ` + cvColumns + `
FROM cvs
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CV{}
	for rows.Next() {
		cv, err := scanCV(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cv)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (CV, error) {
	const query = `SELECT ` + cvColumns + ` FROM cvs WHERE id = $1 AND user_id = $2`
	return scanCV(r.DB.QueryRowContext(ctx, query, id, userID))
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *PGRepo) Create(ctx context.Context, cv CV) (CV, error) {
	return insertCV(ctx, r.DB, cv)
}

// CreateFirst inserts cv only when its owner holds no CVs. The owner's users
// row is locked for the duration so concurrent first inserts serialize.
func (r *PGRepo) CreateFirst(ctx context.Context, cv CV) (CV, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return CV{}, false, err
	}
	defer func() { _ = tx.Rollback() }()

	var locked string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, cv.UserID).Scan(&locked); err != nil {
		return CV{}, false, fmt.Errorf("lock user: %w", err)
	}
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cvs WHERE user_id = $1)`, cv.UserID).Scan(&exists); err != nil {
		return CV{}, false, err
	}
	if exists {
		return CV{}, false, nil
	}
	out, err := insertCV(ctx, tx, cv)
	if err != nil {
		return CV{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return CV{}, false, err
	}
	return out, true, nil
}

func insertCV(ctx context.Context, q rowQuerier, cv CV) (CV, error) {
	const query = `
INSERT INTO cvs (id, user_id, title, personal_info, education, experience, skills, is_paid, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
RETURNING ` + cvColumns
	if cv.ID == "" {
		cv.ID = uuid.NewString()
	}
	content, err := encodeContent(cv.CV)
	if err != nil {
		return CV{}, err
	}
	return scanCV(q.QueryRowContext(ctx, query,
		cv.ID, cv.UserID, cv.Title,
		content.personalInfo, content.education, content.experience, content.skills,
		cv.IsPaid,
	))
}

func (r *PGRepo) Update(ctx context.Context, cv CV) (CV, error) {
	const query = `
UPDATE cvs
SET title = $3, personal_info = $4, education = $5, experience = $6, skills = $7, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + cvColumns
	content, err := encodeContent(cv.CV)
	if err != nil {
		return CV{}, err
	}
	return scanCV(r.DB.QueryRowContext(ctx, query,
		cv.ID, cv.UserID, cv.Title,
		content.personalInfo, content.education, content.experience, content.skills,
	))
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM cvs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cvs WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	const query = `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_paid) FROM cvs`
	var s Stats
	err := r.DB.QueryRowContext(ctx, query).Scan(&s.Total, &s.Paid)
	return s, err
}

type encodedContent struct {
	personalInfo []byte
	education    []byte
	experience   []byte
	skills       []byte
}

func encodeContent(cv model.CV) (encodedContent, error) {
	cv = cv.Normalized()
	var out encodedContent
	var err error
	if out.personalInfo, err = json.Marshal(cv.PersonalInfo); err != nil {
		return out, fmt.Errorf("encode personal info: %w", err)
	}
	if out.education, err = json.Marshal(cv.Education); err != nil {
		return out, fmt.Errorf("encode education: %w", err)
	}
	if out.experience, err = json.Marshal(cv.Experience); err != nil {
		return out, fmt.Errorf("encode experience: %w", err)
	}
	if out.skills, err = json.Marshal(cv.Skills); err != nil {
		return out, fmt.Errorf("encode skills: %w", err)
	}
	return out, nil
}

func scanCV(row rowScanner) (CV, error) {
	var cv CV
	var personalInfo, education, experience, skills []byte
	err := row.Scan(
		&cv.ID,
		&cv.UserID,
		&cv.Title,
		&personalInfo,
		&education,
		&experience,
		&skills,
		&cv.IsPaid,
		&cv.CreatedAt,
		&cv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CV{}, ErrNotFound
		}
		return CV{}, err
	}
	if err := json.Unmarshal(personalInfo, &cv.PersonalInfo); err != nil {
		return CV{}, fmt.Errorf("decode personal_info: %w", err)
	}
	for _, col := range []struct {
		raw  []byte
		dest any
	}{
		{education, &cv.Education},
		{experience, &cv.Experience},
		{skills, &cv.Skills},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return CV{}, fmt.Errorf("decode cv content: %w", err)
		}
	}
	cv.CV = cv.CV.Normalized()
	return cv, nil
}
