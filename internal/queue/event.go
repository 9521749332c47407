// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published whenever a booking becomes
// confirmed: immediately for free events, or on successful payment
// verification for paid ones. It carries enough context for downstream
// consumers to log or notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID     uint64 `json:"booking_id"`
	UserID        uint64 `json:"user_id"`
	UserEmail     string `json:"user_email"`
	EventID       uint64 `json:"event_id"`
	EventTitle    string `json:"event_title"`
	EventDate     string `json:"event_date"`
	EventTime     string `json:"event_time"`
	EventLocation string `json:"event_location"`
	Amount        uint32 `json:"amount"`
	PaymentID     string `json:"payment_id,omitempty"`
	ConfirmedAt   string `json:"confirmed_at"`
}
