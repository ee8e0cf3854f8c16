package payments

import "context"

type Repo interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	GetByReference(ctx context.Context, reference string) (Payment, error)
	// MarkStatus settles a payment. It returns the stored row and whether
	// this call performed the transition. Pending payments move to any
	// settled status and failed payments move to success; successful
	// payments are never changed.
	MarkStatus(ctx context.Context, reference string, status Status) (Payment, bool, error)
	// Attach links cvID to a successful, unfulfilled payment of userID and
	// marks it fulfilled. It reports false when no such payment exists.
	Attach(ctx context.Context, reference, userID, cvID string) (bool, error)
}

// canTransition reports whether a payment in from may be moved to to. A
// provider success overrides an earlier failure so a late confirmation is
// never lost.
func canTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to != StatusPending
	case StatusFailed:
		return to == StatusSuccess
	default:
		return false
	}
}
