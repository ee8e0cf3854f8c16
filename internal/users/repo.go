package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

type Repo interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// EnsureByEmail returns the user with email, creating it when absent.
	EnsureByEmail(ctx context.Context, user User) (User, error)
	Count(ctx context.Context) (int, error)
}

type SessionRepo interface {
	Create(ctx context.Context, session Session) error
	// GetByToken returns ErrNotFound when the digest is unknown.
	GetByToken(ctx context.Context, tokenDigest string) (Session, error)
	DeleteByToken(ctx context.Context, tokenDigest string) error
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}
