package admin

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mikemtdev/career-lift/internal/cvs"
	"github.com/mikemtdev/career-lift/internal/pricing"
)

type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

type CVStats interface {
	Stats(ctx context.Context) (cvs.Stats, error)
}

type Stats struct {
	TotalUsers int `json:"totalUsers"`
	TotalCVs   int `json:"totalCvs"`
	FreeCVs    int `json:"freeCvs"`
	PaidCVs    int `json:"paidCvs"`
}

type Overview struct {
	Stats   Stats           `json:"stats"`
	Pricing pricing.Pricing `json:"pricing"`
}

type Service struct {
	Users   UserCounter
	CVs     CVStats
	Pricing *pricing.Service
}

func NewService(users UserCounter, cvStats CVStats, pricingSvc *pricing.Service) *Service {
	return &Service{Users: users, CVs: cvStats, Pricing: pricingSvc}
}

// Overview gathers user and CV totals along with the current price.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var (
		out     Overview
		cvStats cvs.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Users.Count(gctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		out.Stats.TotalUsers = n
		return nil
	})
	g.Go(func() error {
		st, err := s.CVs.Stats(gctx)
		if err != nil {
			return fmt.Errorf("cv stats: %w", err)
		}
		cvStats = st
		return nil
	})
	g.Go(func() error {
		p, err := s.Pricing.Current(gctx)
		if err != nil {
			return fmt.Errorf("current pricing: %w", err)
		}
		out.Pricing = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	out.Stats.TotalCVs = cvStats.Total
	out.Stats.PaidCVs = cvStats.Paid
	out.Stats.FreeCVs = cvStats.Total - cvStats.Paid
	return out, nil
}
