package pricing

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("pricing not set")

// Repo stores prices append-only; the newest row is current.
type Repo interface {
	Latest(ctx context.Context) (Pricing, error)
	Insert(ctx context.Context, additionalCVPrice int) (Pricing, error)
}

type MemoryRepo struct {
	mu   sync.RWMutex
	rows []Pricing
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Latest(ctx context.Context) (Pricing, error) {
	if err := ctx.Err(); err != nil {
		return Pricing{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.rows) == 0 {
		return Pricing{}, ErrNotFound
	}
	return r.rows[len(r.rows)-1], nil
}

func (r *MemoryRepo) Insert(ctx context.Context, additionalCVPrice int) (Pricing, error) {
	if err := ctx.Err(); err != nil {
		return Pricing{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := Pricing{ID: uuid.NewString(), AdditionalCVPrice: additionalCVPrice, CreatedAt: time.Now().UTC()}
	r.rows = append(r.rows, p)
	return p, nil
}

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Latest(ctx context.Context) (Pricing, error) {
	const query = `
SELECT id, additional_cv_price, created_at
FROM pricing
ORDER BY created_at DESC
LIMIT 1`
	var p Pricing
	err := r.DB.QueryRowContext(ctx, query).Scan(&p.ID, &p.AdditionalCVPrice, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Pricing{}, ErrNotFound
		}
		return Pricing{}, err
	}
	return p, nil
}

func (r *PGRepo) Insert(ctx context.Context, additionalCVPrice int) (Pricing, error) {
	const query = `
INSERT INTO pricing (id, additional_cv_price, created_at)
VALUES ($1, $2, now())
RETURNING id, additional_cv_price, created_at`
	var p Pricing
	err := r.DB.QueryRowContext(ctx, query, uuid.NewString(), additionalCVPrice).
		Scan(&p.ID, &p.AdditionalCVPrice, &p.CreatedAt)
	return p, err
}
