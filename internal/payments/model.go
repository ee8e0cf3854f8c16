package payments

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type Method string

const (
	MethodMobileMoney Method = "mobile_money"
	MethodCard        Method = "card"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Payment is a charge for one additional CV. Amount is in cents.
// FulfilledAt is set when a CV is first attached and never cleared, so a
// payment pays for one CV even after that CV is deleted.
type Payment struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	CVID        string          `json:"cvId,omitempty"`
	Amount      int             `json:"amount"`
	Currency    string          `json:"currency"`
	Method      Method          `json:"paymentMethod"`
	Reference   string          `json:"reference"`
	Status      Status          `json:"status"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	FulfilledAt *time.Time      `json:"fulfilledAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Fulfilled reports whether the payment has already paid for a CV.
func (p Payment) Fulfilled() bool {
	return p.FulfilledAt != nil
}

type InitiateRequest struct {
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=mobile_money card"`
	PhoneNumber   string          `json:"phoneNumber"`
	Currency      string          `json:"currency" validate:"omitempty,len=3,alpha"`
	CVData        json.RawMessage `json:"cvData"`
}

// Payer identifies the user a charge is raised for.
type Payer struct {
	ID    string
	Email string
	Name  string
}

type InitiateResult struct {
	Payment          Payment
	AuthorizationURL string
	AccessCode       string
}

// Event is a provider notification about a charge.
type Event struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Event     string `json:"event"`
}

const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// Outcome maps the event to the status it settles the payment in. ok is
// false for events that do not settle anything.
func (e Event) Outcome() (Status, bool) {
	switch {
	case e.Status == string(StatusSuccess) && e.Event == EventChargeSuccess:
		return StatusSuccess, true
	case e.Status == string(StatusFailed) || e.Event == EventChargeFailed:
		return StatusFailed, true
	default:
		return "", false
	}
}

// ProviderOutcome maps a provider verification status to the status it
// settles the payment in. ok is false while the charge is still open, for
// example a mobile money prompt the payer has not approved yet.
func ProviderOutcome(status string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "successful":
		return StatusSuccess, true
	case "failed", "cancelled", "canceled", "declined", "expired", "abandoned":
		return StatusFailed, true
	default:
		return "", false
	}
}

var (
	ErrNotFound             = errors.New("payment not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidPhone         = errors.New("invalid phone number")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrProvider             = errors.New("payment provider error")
	ErrDuplicateReference   = errors.New("duplicate payment reference")
)
