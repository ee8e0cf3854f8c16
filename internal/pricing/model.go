package pricing

import "time"

// DefaultAdditionalCVPrice applies until an admin sets a price, in cents.
const DefaultAdditionalCVPrice = 100

// Pricing is the price of each CV after the first free one.
type Pricing struct {
	ID                string    `json:"id,omitempty"`
	AdditionalCVPrice int       `json:"additionalCvPrice"`
	Currency          string    `json:"currency"`
	CreatedAt         time.Time `json:"createdAt,omitzero"`
}

type UpdateRequest struct {
	AdditionalCVPrice *int `json:"additionalCvPrice" validate:"required,min=1,max=100000"`
}
