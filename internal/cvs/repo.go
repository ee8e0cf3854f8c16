package cvs

import "context"

type Repo interface {
	// List returns the user's CVs, newest first.
	List(ctx context.Context, userID string) ([]CV, error)
	Get(ctx context.Context, userID, id string) (CV, error)
	Create(ctx context.Context, cv CV) (CV, error)
	// CreateFirst inserts cv only if its owner holds no CVs yet, atomically
	// with that check. ok is false when the owner already has one.
	CreateFirst(ctx context.Context, cv CV) (created CV, ok bool, err error)
	// Update replaces title and content; IsPaid and CreatedAt are kept.
	Update(ctx context.Context, cv CV) (CV, error)
	Delete(ctx context.Context, userID, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
	Stats(ctx context.Context) (Stats, error)
}
