package payments

import "context"

// ChargeRequest is what a gateway needs to open a charge. Amount is in cents.
type ChargeRequest struct {
	Method      Method
	Amount      int
	Currency    string
	Email       string
	Name        string
	PhoneNumber string
	Reference   string
	CallbackURL string
}

// Charge is the provider's answer to a new charge.
type Charge struct {
	AuthorizationURL string
	AccessCode       string
}

// Gateway talks to the payment provider.
type Gateway interface {
	Initialize(ctx context.Context, req ChargeRequest) (Charge, error)
	// Verify returns the provider's status string for reference.
	Verify(ctx context.Context, reference string) (string, error)
}
