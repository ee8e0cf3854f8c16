package payments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikemtdev/career-lift/internal/cvs"
	"github.com/mikemtdev/career-lift/internal/phone"
	"github.com/mikemtdev/career-lift/internal/shared/metrics"
	"github.com/mikemtdev/career-lift/internal/shared/telemetry"
	"github.com/mikemtdev/career-lift/internal/shared/validate"
	"github.com/mikemtdev/career-lift/resume/contract"
)

const callbackPath = "/payment-callback"

type Service struct {
	Repo Repo
	// Gateway is nil when no provider key is configured.
	Gateway     Gateway
	Prices      cvs.PriceSource
	CVs         *cvs.Service
	Currency    string
	CallbackURL string

	now func() time.Time
}

func NewService(repo Repo, gateway Gateway, prices cvs.PriceSource, cvSvc *cvs.Service, currency, frontendURL string) *Service {
	return &Service{
		Repo:        repo,
		Gateway:     gateway,
		Prices:      prices,
		CVs:         cvSvc,
		Currency:    strings.ToUpper(currency),
		CallbackURL: strings.TrimRight(frontendURL, "/") + callbackPath,
	}
}

// Initiate records a pending payment for one additional CV and opens the
// charge with the provider.
func (s *Service) Initiate(ctx context.Context, payer Payer, req InitiateRequest) (InitiateResult, error) {
	if err := validate.Struct(req); err != nil {
		return InitiateResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if s.Gateway == nil {
		return InitiateResult{}, ErrGatewayNotConfigured
	}

	method := Method(req.PaymentMethod)
	var phoneNumber string
	if method == MethodMobileMoney {
		res := phone.Classify(req.PhoneNumber)
		if !res.IsValid {
			return InitiateResult{}, ErrInvalidPhone
		}
		phoneNumber = res.NormalizedNumber
	}

	metadata := bytes.TrimSpace(req.CVData)
	if bytes.Equal(metadata, []byte("null")) {
		metadata = nil
	}
	if len(metadata) > 0 {
		if err := contract.Validate(metadata); err != nil {
			return InitiateResult{}, fmt.Errorf("cv data: %w", err)
		}
	}

	amount, err := s.Prices.AdditionalCVPrice(ctx)
	if err != nil {
		return InitiateResult{}, fmt.Errorf("load price: %w", err)
	}
	currency := s.Currency
	if req.Currency != "" {
		currency = strings.ToUpper(req.Currency)
	}

	p, err := s.Repo.Create(ctx, Payment{
		UserID:    payer.ID,
		Amount:    amount,
		Currency:  currency,
		Method:    method,
		Reference: newReference(s.clock(), payer.ID),
		Status:    StatusPending,
		Metadata:  metadata,
	})
	if err != nil {
		return InitiateResult{}, fmt.Errorf("create payment: %w", err)
	}
	metrics.IncPayment(string(method), string(StatusPending))

	charge, err := s.Gateway.Initialize(ctx, ChargeRequest{
		Method:      method,
		Amount:      amount,
		Currency:    currency,
		Email:       payer.Email,
		Name:        payer.Name,
		PhoneNumber: phoneNumber,
		Reference:   p.Reference,
		CallbackURL: s.CallbackURL,
	})
	if err != nil {
		if _, _, markErr := s.Repo.MarkStatus(ctx, p.Reference, StatusFailed); markErr != nil {
			telemetry.Error("payment.mark_failed_error", map[string]any{"payment_reference": p.Reference, "error": markErr})
		}
		metrics.IncPayment(string(method), string(StatusFailed))
		return InitiateResult{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	telemetry.Info("payment.initiated", map[string]any{
		"user_id":           payer.ID,
		"payment_reference": p.Reference,
		"method":            string(method),
		"amount":            amount,
	})
	return InitiateResult{Payment: p, AuthorizationURL: charge.AuthorizationURL, AccessCode: charge.AccessCode}, nil
}

// VerifyResult is the settled state of a payment and the CV it paid for.
type VerifyResult struct {
	Status Status
	CV     *cvs.CV
}

// Verify asks the provider for the status of a pending payment owned by
// userID. Settled payments are answered from storage.
func (s *Service) Verify(ctx context.Context, userID, reference string) (VerifyResult, error) {
	p, err := s.Repo.GetByReference(ctx, reference)
	if err != nil {
		return VerifyResult{}, err
	}
	if p.UserID != userID {
		return VerifyResult{}, ErrNotFound
	}

	if p.Status == StatusPending {
		if s.Gateway == nil {
			return VerifyResult{}, ErrGatewayNotConfigured
		}
		providerStatus, err := s.Gateway.Verify(ctx, reference)
		if err != nil {
			metrics.IncPaymentEvent("verify", "error")
			return VerifyResult{}, fmt.Errorf("%w: %w", ErrProvider, err)
		}
		status, settled := ProviderOutcome(providerStatus)
		if !settled {
			metrics.IncPaymentEvent("verify", "open")
			return VerifyResult{Status: StatusPending}, nil
		}
		metrics.IncPaymentEvent("verify", string(status))
		return s.settle(ctx, reference, status)
	}

	if p.Status == StatusSuccess {
		return s.settled(ctx, p)
	}
	return VerifyResult{Status: p.Status}, nil
}

// ApplyEvent settles a payment from a provider notification. source labels
// the metric ("webhook" or "worker").
func (s *Service) ApplyEvent(ctx context.Context, source string, ev Event) (VerifyResult, error) {
	status, ok := ev.Outcome()
	if !ok {
		metrics.IncPaymentEvent(source, "ignored")
		telemetry.Info("payment.event_ignored", map[string]any{
			"payment_reference": ev.Reference,
			"status":            ev.Status,
			"event":             ev.Event,
		})
		p, err := s.Repo.GetByReference(ctx, ev.Reference)
		if err != nil {
			return VerifyResult{}, err
		}
		return VerifyResult{Status: p.Status}, nil
	}
	res, err := s.settle(ctx, ev.Reference, status)
	if err != nil {
		metrics.IncPaymentEvent(source, "error")
		return VerifyResult{}, err
	}
	metrics.IncPaymentEvent(source, string(status))
	return res, nil
}

// Redeem attaches cvID to a successful payment of userID that has not paid
// for a CV yet.
func (s *Service) Redeem(ctx context.Context, userID, reference, cvID string) error {
	ok, err := s.Repo.Attach(ctx, reference, userID, cvID)
	if err != nil {
		return fmt.Errorf("attach cv: %w", err)
	}
	if !ok {
		return fmt.Errorf("payment %s: %w", reference, cvs.ErrNotRedeemable)
	}
	telemetry.Info("payment.redeemed", map[string]any{"user_id": userID, "payment_reference": reference, "cv_id": cvID})
	return nil
}

func (s *Service) settle(ctx context.Context, reference string, status Status) (VerifyResult, error) {
	p, transitioned, err := s.Repo.MarkStatus(ctx, reference, status)
	if err != nil {
		return VerifyResult{}, err
	}
	if transitioned {
		metrics.IncPayment(string(p.Method), string(p.Status))
		telemetry.Info("payment.settled", map[string]any{
			"user_id":           p.UserID,
			"payment_reference": p.Reference,
			"status":            string(p.Status),
		})
	}

	if p.Status != StatusSuccess {
		return VerifyResult{Status: p.Status}, nil
	}
	return s.settled(ctx, p)
}

// settled returns a successful payment with its CV. A drafted CV that was
// never linked, because an earlier attempt failed midway, is created now;
// Attach keeps concurrent attempts from linking twice. A fulfilled payment
// whose CV was deleted returns no CV.
func (s *Service) settled(ctx context.Context, p Payment) (VerifyResult, error) {
	res := VerifyResult{Status: p.Status}
	switch {
	case p.CVID != "":
		cv, err := s.CVs.Get(ctx, p.UserID, p.CVID)
		if err != nil && !errors.Is(err, cvs.ErrNotFound) {
			return VerifyResult{}, err
		}
		if err == nil {
			res.CV = &cv
		}
	case !p.Fulfilled() && len(p.Metadata) > 0:
		cv, err := s.fulfil(ctx, p)
		if err != nil {
			return VerifyResult{}, err
		}
		res.CV = cv
	}
	return res, nil
}

// fulfil creates the CV drafted at initiation and links it to the payment.
func (s *Service) fulfil(ctx context.Context, p Payment) (*cvs.CV, error) {
	doc, err := contract.Decode(p.Metadata)
	if err != nil {
		telemetry.Warn("payment.metadata_invalid", map[string]any{"payment_reference": p.Reference, "error": err})
		return nil, nil
	}
	cv, err := s.CVs.CreatePaid(ctx, p.UserID, doc)
	if err != nil {
		return nil, fmt.Errorf("create paid cv: %w", err)
	}
	ok, err := s.Repo.Attach(ctx, p.Reference, p.UserID, cv.ID)
	if err == nil && ok {
		return &cv, nil
	}
	if delErr := s.CVs.Delete(ctx, p.UserID, cv.ID); delErr != nil {
		telemetry.Error("payment.cv_rollback_failed", map[string]any{"cv_id": cv.ID, "error": delErr})
	}
	if err != nil {
		return nil, fmt.Errorf("attach cv: %w", err)
	}
	return nil, nil
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func newReference(now time.Time, userID string) string {
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("CV_%d_%s", now.UnixMilli(), prefix)
}
