package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikemtdev/career-lift/internal/shared/telemetry"
	"github.com/mikemtdev/career-lift/internal/shared/validate"
)

var ErrInvalidInput = errors.New("invalid pricing")

type Service struct {
	Repo     Repo
	Cache    Cache
	Currency string
}

func NewService(repo Repo, cache Cache, currency string) *Service {
	if currency == "" {
		currency = "USD"
	}
	return &Service{Repo: repo, Cache: cache, Currency: currency}
}

// Current returns the latest price, or the default when none was set.
// Cache failures degrade to a repository read.
func (s *Service) Current(ctx context.Context) (Pricing, error) {
	if s.Cache != nil {
		p, ok, err := s.Cache.Get(ctx)
		if err != nil {
			telemetry.Warn("pricing.cache_get_failed", map[string]any{"error": err})
		} else if ok {
			return s.withCurrency(p), nil
		}
	}

	p, err := s.Repo.Latest(ctx)
	if errors.Is(err, ErrNotFound) {
		p = Pricing{AdditionalCVPrice: DefaultAdditionalCVPrice}
	} else if err != nil {
		return Pricing{}, fmt.Errorf("load pricing: %w", err)
	}
	p = s.withCurrency(p)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, p); err != nil {
			telemetry.Warn("pricing.cache_set_failed", map[string]any{"error": err})
		}
	}
	return p, nil
}

// AdditionalCVPrice returns the current price in cents.
func (s *Service) AdditionalCVPrice(ctx context.Context) (int, error) {
	p, err := s.Current(ctx)
	if err != nil {
		return 0, err
	}
	return p.AdditionalCVPrice, nil
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) (Pricing, error) {
	if err := validate.Struct(req); err != nil {
		return Pricing{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	p, err := s.Repo.Insert(ctx, *req.AdditionalCVPrice)
	if err != nil {
		return Pricing{}, fmt.Errorf("insert pricing: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			telemetry.Warn("pricing.cache_invalidate_failed", map[string]any{"error": err})
		}
	}
	telemetry.Info("pricing.updated", map[string]any{"additional_cv_price": p.AdditionalCVPrice})
	return s.withCurrency(p), nil
}

func (s *Service) withCurrency(p Pricing) Pricing {
	if p.Currency == "" {
		p.Currency = s.Currency
	}
	return p
}
