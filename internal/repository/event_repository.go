package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iipsyoga/club-booking/internal/model"
)

// EventRepo provides CRUD operations for events plus the occupancy
// bookkeeping used by the booking workflow. Occupancy changes go through
// ClaimSpotTx / ReleaseSpotTx so the invariant
// 0 <= current_participants <= max_participants is enforced by single
// conditional statements rather than read-modify-write sequences.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventColumns = `id,title,description,DATE_FORMAT(date,'%Y-%m-%d'),time,location,
	max_participants,current_participants,price,image,type,instructor,created_at,updated_at`

func scanEvent(s interface {
	Scan(dest ...interface{}) error
}) (model.Event, error) {
	var e model.Event
	err := s.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.MaxParticipants, &e.CurrentParticipants, &e.Price, &e.Image, &e.Type,
		&e.Instructor, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// List returns events, optionally filtered by type, newest date first.
func (r *EventRepo) List(ctx context.Context, eventType string) ([]model.Event, error) {
	q := "SELECT " + eventColumns + " FROM events"
	args := []interface{}{}
	if eventType != "" {
		q += " WHERE type=?"
		args = append(args, eventType)
	}
	q += " ORDER BY date DESC"
	return r.queryEvents(ctx, q, args...)
}

// ListUpcoming returns upcoming events whose date has not passed yet,
// soonest first.
func (r *EventRepo) ListUpcoming(ctx context.Context, today time.Time) ([]model.Event, error) {
	return r.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM events WHERE type=? AND date >= ? ORDER BY date ASC",
		model.EventTypeUpcoming, today.Format("2006-01-02"))
}

// ListPrevious returns past events, newest first.
func (r *EventRepo) ListPrevious(ctx context.Context) ([]model.Event, error) {
	return r.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM events WHERE type=? ORDER BY date DESC",
		model.EventTypePrevious)
}

func (r *EventRepo) queryEvents(ctx context.Context, q string, args ...interface{}) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID fetches a single event. sql.ErrNoRows is returned when the
// event does not exist.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	return scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
}

// Create inserts a new event with zero occupancy and returns its ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO events (title, description, date, time, location, max_participants,
			current_participants, price, image, type, instructor)
		 VALUES (?,?,?,?,?,?,0,?,?,?,?)`,
		e.Title, e.Description, e.Date, e.Time, e.Location, e.MaxParticipants,
		e.Price, e.Image, e.Type, e.Instructor)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the admin-editable fields of an event. Occupancy is
// not touched here; existence checks happen in the handler so an UPDATE
// that changes nothing is not mistaken for a missing row.
func (r *EventRepo) Update(ctx context.Context, id uint64, e *model.Event) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE events SET title=?, description=?, date=?, time=?, location=?,
			max_participants=?, price=?, image=?, type=?, instructor=?
		 WHERE id=?`,
		e.Title, e.Description, e.Date, e.Time, e.Location,
		e.MaxParticipants, e.Price, e.Image, e.Type, e.Instructor, id)
	return err
}

// Delete removes an event. Bookings referencing it cascade away.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// claimSpotTx atomically takes one spot on the event inside tx. The
// conditional WHERE clause makes the capacity check and the increment a
// single statement, so two concurrent bookings can never oversell the
// last open spot. Returns ErrEventFull when the event is at capacity.
func claimSpotTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE events SET current_participants = current_participants + 1
		 WHERE id=? AND current_participants < max_participants`, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventFull
	}
	return nil
}

// releaseSpotTx gives one spot back inside tx, never dropping occupancy
// below zero. GREATEST keeps the unsigned column from wrapping when the
// count is already zero.
func releaseSpotTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE events SET current_participants = GREATEST(current_participants, 1) - 1
		 WHERE id=?`, eventID)
	return err
}
