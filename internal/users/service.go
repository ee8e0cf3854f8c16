package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikemtdev/career-lift/internal/shared/auth"
	"github.com/mikemtdev/career-lift/internal/shared/server/middleware"
	"github.com/mikemtdev/career-lift/internal/shared/util"
	"github.com/mikemtdev/career-lift/internal/shared/validate"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

type Service struct {
	Repo     Repo
	Sessions SessionRepo
	Tokens   *auth.JWTService
	Hasher   *auth.PasswordHasher
	// AdminEmail reports whether an address is configured as an administrator.
	AdminEmail func(email string) bool

	now func() time.Time
}

func NewService(repo Repo, sessions SessionRepo, tokens *auth.JWTService, hasher *auth.PasswordHasher, adminEmail func(string) bool) *Service {
	return &Service{
		Repo:       repo,
		Sessions:   sessions,
		Tokens:     tokens,
		Hasher:     hasher,
		AdminEmail: adminEmail,
		now:        time.Now,
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return AuthResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := s.Repo.GetByEmail(ctx, req.Email); err == nil {
		return AuthResult{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return AuthResult{}, err
	}
	user, err := s.Repo.Create(ctx, User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		IsAdmin:      s.isAdminEmail(req.Email),
	})
	if err != nil {
		return AuthResult{}, err
	}
	return s.issue(ctx, user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return AuthResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, ErrNotFound) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if !s.Hasher.Verify(req.Password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

// LoginExternal signs in a user already authenticated by an identity
// provider, creating the account on first use.
func (s *Service) LoginExternal(ctx context.Context, email, name string) (AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return AuthResult{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	user, err := s.Repo.EnsureByEmail(ctx, User{
		Email:   email,
		Name:    strings.TrimSpace(name),
		IsAdmin: s.isAdminEmail(email),
	})
	if err != nil {
		return AuthResult{}, fmt.Errorf("ensure user: %w", err)
	}
	return s.issue(ctx, user)
}

// Logout revokes the session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrUnauthorized
	}
	return s.Sessions.DeleteByToken(ctx, util.Digest(token))
}

// Verify resolves a bearer token. The signature, the session row and the
// user must all be valid.
func (s *Service) Verify(ctx context.Context, token string) (middleware.Identity, error) {
	claims, err := s.Tokens.ValidateToken(token)
	if err != nil {
		return middleware.Identity{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	session, err := s.Sessions.GetByToken(ctx, util.Digest(token))
	if errors.Is(err, ErrNotFound) {
		return middleware.Identity{}, fmt.Errorf("%w: session not found", ErrUnauthorized)
	}
	if err != nil {
		return middleware.Identity{}, err
	}
	if !session.ExpiresAt.After(s.clock()) || session.UserID != claims.UserID {
		return middleware.Identity{}, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	user, err := s.Repo.GetByID(ctx, claims.UserID)
	if errors.Is(err, ErrNotFound) {
		return middleware.Identity{}, fmt.Errorf("%w: user not found", ErrUnauthorized)
	}
	if err != nil {
		return middleware.Identity{}, err
	}
	return middleware.Identity{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin || s.isAdminEmail(user.Email),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// Count returns the number of registered users.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.Repo.Count(ctx)
}

// PruneSessions deletes sessions that expired before now.
func (s *Service) PruneSessions(ctx context.Context) (int, error) {
	return s.Sessions.DeleteExpired(ctx, s.clock())
}

func (s *Service) issue(ctx context.Context, user User) (AuthResult, error) {
	token, expiresAt, err := s.Tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.Sessions.Create(ctx, Session{
		UserID:      user.ID,
		TokenDigest: util.Digest(token),
		ExpiresAt:   expiresAt,
	}); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}
	return AuthResult{User: user.Profile(), Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) isAdminEmail(email string) bool {
	return s.AdminEmail != nil && s.AdminEmail(email)
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
