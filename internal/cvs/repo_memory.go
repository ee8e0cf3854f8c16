package cvs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu  sync.RWMutex
	cvs map[string]CV
	seq map[string]int
	n   int
	now func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{cvs: make(map[string]CV), seq: make(map[string]int), now: time.Now}
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]CV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []CV{}
	for _, cv := range r.cvs {
		if cv.UserID == userID {
			out = append(out, cv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (CV, error) {
	if err := ctx.Err(); err != nil {
		return CV{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cv, ok := r.cvs[id]
	if !ok || cv.UserID != userID {
		return CV{}, ErrNotFound
	}
	return cv, nil
}

func (r *MemoryRepo) Create(ctx context.Context, cv CV) (CV, error) {
	if err := ctx.Err(); err != nil {
		return CV{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(cv), nil
}

func (r *MemoryRepo) CreateFirst(ctx context.Context, cv CV) (CV, bool, error) {
	if err := ctx.Err(); err != nil {
		return CV{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.cvs {
		if existing.UserID == cv.UserID {
			return CV{}, false, nil
		}
	}
	return r.insert(cv), true, nil
}

// insert requires r.mu to be held.
func (r *MemoryRepo) insert(cv CV) CV {
	if cv.ID == "" {
		cv.ID = uuid.NewString()
	}
	now := r.now().UTC()
	cv.CreatedAt = now
	cv.UpdatedAt = now
	r.n++
	r.seq[cv.ID] = r.n
	r.cvs[cv.ID] = cv
	return cv
}

func (r *MemoryRepo) Update(ctx context.Context, cv CV) (CV, error) {
	if err := ctx.Err(); err != nil {
		return CV{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.cvs[cv.ID]
	if !ok || existing.UserID != cv.UserID {
		return CV{}, ErrNotFound
	}
	existing.Title = cv.Title
	existing.CV = cv.CV
	updated := r.now().UTC()
	if !updated.After(existing.UpdatedAt) {
		updated = existing.UpdatedAt.Add(time.Nanosecond)
	}
	existing.UpdatedAt = updated
	r.cvs[cv.ID] = existing
	return existing, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cv, ok := r.cvs[id]
	if !ok || cv.UserID != userID {
		return ErrNotFound
	}
	delete(r.cvs, id)
	delete(r.seq, id)
	return nil
}

func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, cv := range r.cvs {
		if cv.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var s Stats
	for _, cv := range r.cvs {
		s.Total++
		if cv.IsPaid {
			s.Paid++
		}
	}
	return s, nil
}
