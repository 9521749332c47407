// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a full
// event or a duplicate booking is a business-rule conflict (HTTP 400)
// rather than a server fault.
package repository

import "errors"

// ErrEventFull is returned by the booking workflow when the conditional
// occupancy claim finds current_participants == max_participants.
var ErrEventFull = errors.New("event is fully booked")

// ErrAlreadyBooked is returned when a user already holds a booking for
// the event, either detected by the pre-check or by the unique key on
// (user_id, event_id).
var ErrAlreadyBooked = errors.New("already booked")
