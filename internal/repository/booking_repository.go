package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iipsyoga/club-booking/internal/model"
)

// BookingRepo provides persistence for bookings. CreateForEvent and
// Cancel pair the booking write with the matching occupancy change on
// the event inside a single transaction, so the store can never hold a
// booking without its spot or a spot without its booking.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingColumns = "id,user_id,event_id,amount,payment_status,payment_id,created_at,updated_at"

func scanBooking(s interface {
	Scan(dest ...interface{}) error
}) (model.Booking, error) {
	var b model.Booking
	var paymentID sql.NullString
	err := s.Scan(&b.ID, &b.UserID, &b.EventID, &b.Amount, &b.PaymentStatus,
		&paymentID, &b.CreatedAt, &b.UpdatedAt)
	if paymentID.Valid {
		p := paymentID.String
		b.PaymentID = &p
	}
	return b, err
}

// CreateForEvent runs the booking-create workflow in one transaction:
// claim a spot on the event with the conditional increment, then insert
// the booking row. Either both writes land or neither does, so a failed
// insert can never leak a claimed spot. Returns ErrEventFull when the
// event has no open spot and ErrAlreadyBooked on the unique-key race.
func (r *BookingRepo) CreateForEvent(ctx context.Context, b *model.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := claimSpotTx(ctx, tx, b.EventID); err != nil {
		return err
	}
	if err := r.createTx(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Cancel deletes the booking and releases its spot in one transaction,
// flooring occupancy at zero.
func (r *BookingRepo) Cancel(ctx context.Context, id, eventID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := r.deleteTx(ctx, tx, id); err != nil {
		return err
	}
	if err := releaseSpotTx(ctx, tx, eventID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// createTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided record. A violation of the (user_id, event_id) unique key
// maps to ErrAlreadyBooked.
func (r *BookingRepo) createTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, event_id, amount, payment_status) VALUES (?,?,?,?)",
		b.UserID, b.EventID, b.Amount, b.PaymentStatus)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadyBooked
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	got, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=?", b.ID))
	if err != nil {
		return err
	}
	*b = got
	return nil
}

// GetByID fetches a booking regardless of owner. Ownership enforcement
// is the handler's concern (owner or admin).
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	return scanBooking(r.DB.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id))
}

// GetByIDForUser fetches a booking only when it belongs to userID.
// sql.ErrNoRows covers both a missing booking and one owned by someone
// else, which the payment endpoints report uniformly as not found.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Booking, error) {
	return scanBooking(r.DB.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? AND user_id=? LIMIT 1", id, userID))
}

// ExistsForUserEvent reports whether the user already holds a booking
// for the event. This pre-check exists for the friendlier error message;
// the unique key is the real guarantee.
func (r *BookingRepo) ExistsForUserEvent(ctx context.Context, userID, eventID uint64) (bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM bookings WHERE user_id=? AND event_id=? LIMIT 1",
		userID, eventID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkCompleted transitions a booking to completed and records the
// gateway payment id.
func (r *BookingRepo) MarkCompleted(ctx context.Context, id uint64, paymentID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET payment_status=?, payment_id=? WHERE id=?",
		model.PaymentCompleted, paymentID, id)
	return err
}

// deleteTx removes a booking inside tx as part of cancellation.
func (r *BookingRepo) deleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id)
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

// BookingDetail joins a booking with the owning user and the booked
// event for admin listings and detail views.
type BookingDetail struct {
	model.Booking
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	UserPhone     string `json:"user_phone"`
	UserStudentID string `json:"user_student_id"`
	EventTitle    string `json:"event_title"`
	EventDate     string `json:"event_date"`
	EventTime     string `json:"event_time"`
	EventLocation string `json:"event_location"`
	Instructor    string `json:"event_instructor"`
}

const detailQuery = `SELECT b.id, b.user_id, b.event_id, b.amount, b.payment_status, b.payment_id,
	b.created_at, b.updated_at,
	u.name, u.email, u.phone, u.student_id,
	e.title, DATE_FORMAT(e.date,'%Y-%m-%d'), e.time, e.location, e.instructor
	FROM bookings b
	JOIN users u ON u.id = b.user_id
	JOIN events e ON e.id = b.event_id`

func scanDetail(s interface {
	Scan(dest ...interface{}) error
}) (BookingDetail, error) {
	var d BookingDetail
	var paymentID sql.NullString
	err := s.Scan(&d.ID, &d.UserID, &d.EventID, &d.Amount, &d.PaymentStatus,
		&paymentID, &d.CreatedAt, &d.UpdatedAt,
		&d.UserName, &d.UserEmail, &d.UserPhone, &d.UserStudentID,
		&d.EventTitle, &d.EventDate, &d.EventTime, &d.EventLocation, &d.Instructor)
	if paymentID.Valid {
		p := paymentID.String
		d.PaymentID = &p
	}
	return d, err
}

// ListAll returns every booking with user and event context, newest
// first. Admin only.
func (r *BookingRepo) ListAll(ctx context.Context) ([]BookingDetail, error) {
	return r.queryDetails(ctx, detailQuery+" ORDER BY b.created_at DESC")
}

// ListByUser returns the user's own bookings with event context, newest
// first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	return r.queryDetails(ctx, detailQuery+" WHERE b.user_id=? ORDER BY b.created_at DESC", userID)
}

// GetDetail returns a single booking with user and event context.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (BookingDetail, error) {
	return scanDetail(r.DB.QueryRowContext(ctx, detailQuery+" WHERE b.id=? LIMIT 1", id))
}

func (r *BookingRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]BookingDetail, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
