package cvs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mikemtdev/career-lift/internal/ats"
	"github.com/mikemtdev/career-lift/internal/extract"
	"github.com/mikemtdev/career-lift/internal/shared/metrics"
	"github.com/mikemtdev/career-lift/internal/shared/storage/object"
	"github.com/mikemtdev/career-lift/internal/shared/telemetry"
	"github.com/mikemtdev/career-lift/resume/model"
	"github.com/mikemtdev/career-lift/resume/render"
	"github.com/mikemtdev/career-lift/resume/skills"
)

// PaymentRedeemer attaches a CV to a settled payment. It returns an error
// wrapping ErrNotRedeemable when the reference cannot pay for the CV.
type PaymentRedeemer interface {
	Redeem(ctx context.Context, userID, reference, cvID string) error
}

// PriceSource reports the current price of an additional CV in cents.
type PriceSource interface {
	AdditionalCVPrice(ctx context.Context) (int, error)
}

type Service struct {
	Repo     Repo
	Payments PaymentRedeemer
	Prices   PriceSource
	// Store caches rendered exports. Nil disables caching.
	Store object.Store
}

func NewService(repo Repo, payments PaymentRedeemer, prices PriceSource, store object.Store) *Service {
	return &Service{Repo: repo, Payments: payments, Prices: prices, Store: store}
}

func (s *Service) List(ctx context.Context, userID string) ([]CV, error) {
	return s.Repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (CV, error) {
	return s.Repo.Get(ctx, userID, id)
}

// Create stores a new CV. The first CV a user holds is free; any further CV
// must redeem a successful payment named by paymentRef.
func (s *Service) Create(ctx context.Context, userID string, doc model.Document, paymentRef string) (CV, error) {
	count, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return CV{}, fmt.Errorf("count cvs: %w", err)
	}
	if count == 0 {
		cv, ok, err := s.Repo.CreateFirst(ctx, newCV(userID, doc, false))
		if err != nil {
			return CV{}, err
		}
		if ok {
			metrics.IncCVCreated("free")
			telemetry.Info("cv.created", map[string]any{"user_id": userID, "cv_id": cv.ID, "paid": false})
			return cv, nil
		}
		// A concurrent request took the free slot.
		if count, err = s.Repo.CountByUser(ctx, userID); err != nil {
			return CV{}, fmt.Errorf("count cvs: %w", err)
		}
	}

	paymentRef = strings.TrimSpace(paymentRef)
	if paymentRef == "" || s.Payments == nil {
		return CV{}, s.paymentRequired(ctx, count)
	}

	cv, err := s.Repo.Create(ctx, newCV(userID, doc, true))
	if err != nil {
		return CV{}, err
	}
	if err := s.Payments.Redeem(ctx, userID, paymentRef, cv.ID); err != nil {
		if delErr := s.Repo.Delete(ctx, userID, cv.ID); delErr != nil {
			telemetry.Error("cv.rollback_failed", map[string]any{"cv_id": cv.ID, "error": delErr})
		}
		if errors.Is(err, ErrNotRedeemable) {
			return CV{}, s.paymentRequired(ctx, count)
		}
		return CV{}, fmt.Errorf("redeem payment: %w", err)
	}
	metrics.IncCVCreated("paid")
	telemetry.Info("cv.created", map[string]any{
		"user_id":           userID,
		"cv_id":             cv.ID,
		"paid":              true,
		"payment_reference": paymentRef,
	})
	return cv, nil
}

// CreatePaid stores a CV already paid for, bypassing the free-CV gate. The
// caller is responsible for linking the payment.
func (s *Service) CreatePaid(ctx context.Context, userID string, doc model.Document) (CV, error) {
	cv, err := s.Repo.Create(ctx, newCV(userID, doc, true))
	if err != nil {
		return CV{}, err
	}
	metrics.IncCVCreated("paid")
	telemetry.Info("cv.created", map[string]any{"user_id": userID, "cv_id": cv.ID, "paid": true})
	return cv, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, doc model.Document) (CV, error) {
	cv := newCV(userID, doc, false)
	cv.ID = id
	return s.Repo.Update(ctx, cv)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}

// Score runs the ATS scorer on a stored CV.
func (s *Service) Score(ctx context.Context, userID, id string) (ats.Result, error) {
	cv, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return ats.Result{}, err
	}
	res := ats.Score(cv.CV)
	metrics.ObserveATSScore(res.Score)
	return res, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.Repo.Stats(ctx)
}

// Export is a rendered CV ready for download.
type Export struct {
	Title  string
	Data   []byte
	Pages  int
	Cached bool
}

// ExportKey names the cached rendering of a CV revision.
func ExportKey(cv CV) string {
	return fmt.Sprintf("exports/%s/%d.pdf", cv.ID, cv.UpdatedAt.UnixNano())
}

// Export renders the CV as PDF, serving a cached copy of the same revision
// when one exists.
func (s *Service) Export(ctx context.Context, userID, id string) (Export, error) {
	cv, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Export{}, err
	}
	key := ExportKey(cv)

	out := Export{Title: cv.Title}
	if data, ok := s.cached(ctx, key); ok {
		out.Data, out.Cached = data, true
	} else {
		out.Data, err = render.PDF(cv.Title, cv.CV)
		if err != nil {
			return Export{}, fmt.Errorf("render cv: %w", err)
		}
		if s.Store != nil {
			if _, err := s.Store.Put(ctx, key, render.ContentType, bytes.NewReader(out.Data)); err != nil {
				telemetry.Warn("cv.export_cache_put_failed", map[string]any{"cv_id": cv.ID, "error": err})
			}
		}
	}

	out.Pages, err = extract.PageCount(out.Data)
	if err != nil {
		return Export{}, fmt.Errorf("inspect export: %w", err)
	}
	return out, nil
}

func (s *Service) cached(ctx context.Context, key string) ([]byte, bool) {
	if s.Store == nil {
		return nil, false
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		if !errors.Is(err, object.ErrNotFound) {
			telemetry.Warn("cv.export_cache_open_failed", map[string]any{"key": key, "error": err})
		}
		return nil, false
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

func (s *Service) paymentRequired(ctx context.Context, count int) error {
	perr := &PaymentRequiredError{CVCount: count}
	if s.Prices != nil {
		price, err := s.Prices.AdditionalCVPrice(ctx)
		if err != nil {
			return fmt.Errorf("load price: %w", err)
		}
		perr.Price = price
	}
	return perr
}

func newCV(userID string, doc model.Document, paid bool) CV {
	content := doc.CV.Normalized()
	content.Skills = skills.Normalize(content.Skills)
	return CV{
		UserID: userID,
		Title:  strings.TrimSpace(doc.Title),
		CV:     content,
		IsPaid: paid,
	}
}
