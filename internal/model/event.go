package model

import "time"

// Event type values. "upcoming" events are bookable; "previous" events
// are kept for the marketing pages.
const (
	EventTypeUpcoming = "upcoming"
	EventTypePrevious = "previous"
)

// Event mirrors the `events` table. CurrentParticipants is maintained by
// the booking workflow and must always satisfy
// 0 <= current_participants <= max_participants. Price is in whole INR;
// a price of zero marks a free event.
type Event struct {
	ID                  uint64    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Date                string    `json:"date"` // YYYY-MM-DD
	Time                string    `json:"time"`
	Location            string    `json:"location"`
	MaxParticipants     uint32    `json:"max_participants"`
	CurrentParticipants uint32    `json:"current_participants"`
	Price               uint32    `json:"price"`
	Image               string    `json:"image"`
	Type                string    `json:"type"`
	Instructor          string    `json:"instructor"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// IsFree reports whether booking the event requires no payment.
func (e *Event) IsFree() bool { return e.Price == 0 }
