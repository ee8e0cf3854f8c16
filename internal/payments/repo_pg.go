package payments

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

const paymentColumns = `id, user_id, cv_id, amount, currency, payment_method, reference, status, metadata, fulfilled_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Create(ctx context.Context, p Payment) (Payment, error) {
	const query = `
INSERT INTO payments (id, user_id, amount, currency, payment_method, reference, status, metadata, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
ON CONFLICT (reference) DO NOTHING
RETURNING ` + paymentColumns
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	var metadata any
	if len(p.Metadata) > 0 {
		metadata = []byte(p.Metadata)
	}
	out, err := scanPayment(r.DB.QueryRowContext(ctx, query,
		p.ID, p.UserID, p.Amount, p.Currency, string(p.Method), p.Reference, string(p.Status), metadata,
	))
	if errors.Is(err, ErrNotFound) {
		return Payment{}, ErrDuplicateReference
	}
	return out, err
}

func (r *PGRepo) GetByReference(ctx context.Context, reference string) (Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE reference = $1`
	return scanPayment(r.DB.QueryRowContext(ctx, query, reference))
}

func (r *PGRepo) MarkStatus(ctx context.Context, reference string, status Status) (Payment, bool, error) {
	const query = `
UPDATE payments
SET status = $2, updated_at = now()
WHERE reference = $1
  AND (status = 'pending' OR (status = 'failed' AND $2 = 'success'))
RETURNING ` + paymentColumns
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, reference, string(status)))
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Payment{}, false, err
	}
	p, err = r.GetByReference(ctx, reference)
	if err != nil {
		return Payment{}, false, err
	}
	return p, false, nil
}

func (r *PGRepo) Attach(ctx context.Context, reference, userID, cvID string) (bool, error) {
	const query = `
UPDATE payments
SET cv_id = $3, fulfilled_at = now(), updated_at = now()
WHERE reference = $1 AND user_id = $2 AND status = 'success' AND fulfilled_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, reference, userID, cvID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanPayment(row rowScanner) (Payment, error) {
	var (
		p         Payment
		cvID      sql.NullString
		method    string
		status    string
		metadata  []byte
		fulfilled sql.NullTime
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&cvID,
		&p.Amount,
		&p.Currency,
		&method,
		&p.Reference,
		&status,
		&metadata,
		&fulfilled,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	p.CVID = cvID.String
	if fulfilled.Valid {
		p.FulfilledAt = &fulfilled.Time
	}
	p.Method = Method(method)
	p.Status = Status(status)
	if len(metadata) > 0 {
		p.Metadata = metadata
	}
	return p, nil
}
