package cvs

import (
	"errors"
	"fmt"
	"time"

	"github.com/mikemtdev/career-lift/resume/model"
)

// CV is a stored CV document owned by a user.
type CV struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`
	model.CV
	IsPaid    bool      `json:"isPaid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c CV) Document() model.Document {
	return model.Document{Title: c.Title, CV: c.CV}
}

// Stats aggregates CVs across all users.
type Stats struct {
	Total int
	Paid  int
}

var (
	ErrNotFound = errors.New("cv not found")
	// ErrNotRedeemable is returned by a PaymentRedeemer when the reference
	// does not name a successful, unused payment of the caller.
	ErrNotRedeemable = errors.New("payment not redeemable")
)

// PaymentRequiredError is returned when a user who already holds a CV tries
// to create another without a redeemable payment.
type PaymentRequiredError struct {
	CVCount int
	Price   int
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("payment required: user holds %d cvs, price %d", e.CVCount, e.Price)
}
