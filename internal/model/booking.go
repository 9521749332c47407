package model

import "time"

// Payment status lifecycle of a booking. A free booking is created
// directly as completed; a paid booking starts pending and becomes
// completed once the gateway verifies the payment. Cancellation deletes
// the row, so there is no explicit cancelled state.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Booking records a user's spot in an event. Amount is a copy of the
// event price at booking time so later price edits do not change what
// was charged. (user_id, event_id) is unique: a user holds at most one
// booking per event.
type Booking struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	EventID       uint64    `json:"event_id"`
	Amount        uint32    `json:"amount"`
	PaymentStatus string    `json:"payment_status"`
	PaymentID     *string   `json:"payment_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
