package payments

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	payments map[string]Payment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{payments: map[string]Payment{}}
}

func (r *MemoryRepo) Create(ctx context.Context, p Payment) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.Reference]; ok {
		return Payment{}, ErrDuplicateReference
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Metadata = slices.Clone(p.Metadata)
	r.payments[p.Reference] = p
	return p, nil
}

func (r *MemoryRepo) GetByReference(ctx context.Context, reference string) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[reference]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) MarkStatus(ctx context.Context, reference string, status Status) (Payment, bool, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[reference]
	if !ok {
		return Payment{}, false, ErrNotFound
	}
	if !canTransition(p.Status, status) {
		return p, false, nil
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	r.payments[reference] = p
	return p, true, nil
}

func (r *MemoryRepo) Attach(ctx context.Context, reference, userID, cvID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[reference]
	if !ok || p.UserID != userID || p.Status != StatusSuccess || p.Fulfilled() {
		return false, nil
	}
	now := time.Now().UTC()
	p.CVID = cvID
	p.FulfilledAt = &now
	p.UpdatedAt = now
	r.payments[reference] = p
	return true, nil
}
