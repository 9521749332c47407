package model

import "time"

// Email types written to the history trail.
const (
	EmailBookingConfirmation = "booking_confirmation"
	EmailPaymentSuccess      = "payment_success"
)

// Email delivery outcomes.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailHistory is an append-only audit record of every email the service
// attempted to send. The full rendered subject and body are snapshotted
// so the admin back-office can show exactly what went out. SentAt is nil
// when delivery failed.
type EmailHistory struct {
	ID             uint64     `json:"id"`
	UserID         uint64     `json:"user_id"`
	BookingID      uint64     `json:"booking_id"`
	EmailType      string     `json:"email_type"`
	RecipientEmail string     `json:"recipient_email"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	Status         string     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
