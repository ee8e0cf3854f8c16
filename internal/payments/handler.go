package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mikemtdev/career-lift/internal/queue"
	"github.com/mikemtdev/career-lift/internal/shared/server/middleware"
	"github.com/mikemtdev/career-lift/internal/shared/server/respond"
	"github.com/mikemtdev/career-lift/internal/shared/telemetry"
	"github.com/mikemtdev/career-lift/internal/shared/validate"
	"github.com/mikemtdev/career-lift/internal/users"
	"github.com/mikemtdev/career-lift/resume/contract"
)

const SignatureHeader = "X-Lenco-Signature"

// Profiles resolves the display name sent to the provider.
type Profiles interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

type Handler struct {
	Svc      *Service
	Profiles Profiles
	// Queue defers webhook events to the worker when set.
	Queue         queue.Client
	WebhookSecret []byte
	// AllowUnsigned accepts webhooks without a signature when no secret is
	// configured. Only local development sets it.
	AllowUnsigned bool
}

func NewHandler(svc *Service, profiles Profiles, q queue.Client, webhookSecret string) *Handler {
	h := &Handler{Svc: svc, Profiles: profiles, Queue: q}
	if webhookSecret != "" {
		h.WebhookSecret = []byte(webhookSecret)
	}
	return h
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/initiate", h.initiate)
	rg.POST("/payments/verify/:reference", h.verify)
	rg.POST("/payments/webhook", h.webhook)
}

func (h *Handler) initiate(c *gin.Context) {
	var req InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return
	}
	payer := Payer{ID: middleware.UserIDFromContext(c), Email: middleware.UserEmailFromContext(c)}
	if h.Profiles != nil {
		if user, err := h.Profiles.GetByID(c.Request.Context(), payer.ID); err == nil {
			payer.Email = user.Email
			payer.Name = user.Name
		}
	}

	res, err := h.Svc.Initiate(c.Request.Context(), payer, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.PaymentReferenceKey, res.Payment.Reference)
	respond.OK(c, gin.H{
		"payment": gin.H{
			"id":        res.Payment.ID,
			"reference": res.Payment.Reference,
			"status":    res.Payment.Status,
		},
		"authorization_url": res.AuthorizationURL,
		"access_code":       res.AccessCode,
	})
}

func (h *Handler) verify(c *gin.Context) {
	reference := c.Param("reference")
	c.Set(middleware.PaymentReferenceKey, reference)
	res, err := h.Svc.Verify(c.Request.Context(), middleware.UserIDFromContext(c), reference)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, verifyBody(res))
}

func (h *Handler) webhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return
	}
	switch {
	case len(h.WebhookSecret) == 0 && !h.AllowUnsigned:
		respond.Error(c, http.StatusServiceUnavailable, "webhooks_unavailable", "Webhook signing secret not configured", nil)
		return
	case len(h.WebhookSecret) > 0 && !validSignature(h.WebhookSecret, raw, c.GetHeader(SignatureHeader)):
		respond.Error(c, http.StatusUnauthorized, "invalid_signature", "Invalid webhook signature", nil)
		return
	}
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil || strings.TrimSpace(ev.Reference) == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid webhook payload", nil)
		return
	}
	c.Set(middleware.PaymentReferenceKey, ev.Reference)

	if h.Queue != nil {
		err := h.Queue.Send(c.Request.Context(), queue.Message{
			Reference:  ev.Reference,
			Status:     ev.Status,
			Event:      ev.Event,
			RequestID:  middleware.RequestIDFromContext(c),
			ReceivedAt: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			telemetry.Error("payment.webhook_enqueue_failed", map[string]any{"payment_reference": ev.Reference, "error": err})
			respond.Error(c, http.StatusInternalServerError, "internal", "Internal server error", nil)
			return
		}
		respond.JSON(c, http.StatusAccepted, gin.H{"message": "Webhook accepted"})
		return
	}

	if _, err := h.Svc.ApplyEvent(c.Request.Context(), "webhook", ev); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Webhook processed"})
}

// Sign returns the hex HMAC-SHA512 of body, as sent in SignatureHeader.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha512.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(secret, body []byte, header string) bool {
	got, err := hex.DecodeString(strings.TrimSpace(header))
	if err != nil || len(got) == 0 {
		return false
	}
	want, _ := hex.DecodeString(Sign(secret, body))
	return hmac.Equal(got, want)
}

func verifyBody(res VerifyResult) gin.H {
	var message string
	switch res.Status {
	case StatusSuccess:
		message = "Payment successful"
	case StatusPending:
		message = "Payment pending"
	default:
		message = "Payment failed"
	}
	body := gin.H{"status": res.Status, "message": message}
	if res.CV != nil {
		body["cv"] = res.CV
	}
	return body
}

func writeError(c *gin.Context, err error) {
	var verr *contract.ValidationError
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", validate.Details(err))
	case errors.Is(err, ErrInvalidPhone):
		respond.Error(c, http.StatusBadRequest, "invalid_phone", "Invalid phone number", nil)
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid CV data", verr.Fields)
	case errors.Is(err, contract.ErrMalformed):
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid CV data", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Payment not found", nil)
	case errors.Is(err, ErrGatewayNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "payments_unavailable", "Payments are not available", nil)
	case errors.Is(err, ErrProvider):
		telemetry.Error("payment.provider_error", map[string]any{"error": err})
		respond.Error(c, http.StatusBadGateway, "payment_provider_error", "Payment provider error", nil)
	default:
		telemetry.Error("payments.internal", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal", "Internal server error", nil)
	}
}
