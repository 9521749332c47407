package repository

import (
	"context"
	"database/sql"

	"github.com/iipsyoga/club-booking/internal/model"
)

// EmailRepo persists the append-only email_history audit trail. Rows are
// only ever inserted and read; there is no update or delete path.
type EmailRepo struct{ DB *sql.DB }

func NewEmailRepo(db *sql.DB) *EmailRepo { return &EmailRepo{DB: db} }

const emailColumns = "id,user_id,booking_id,email_type,recipient_email,subject,body,status,sent_at,created_at"

func scanEmail(s interface {
	Scan(dest ...interface{}) error
}) (model.EmailHistory, error) {
	var e model.EmailHistory
	var sentAt sql.NullTime
	err := s.Scan(&e.ID, &e.UserID, &e.BookingID, &e.EmailType, &e.RecipientEmail,
		&e.Subject, &e.Body, &e.Status, &sentAt, &e.CreatedAt)
	if sentAt.Valid {
		t := sentAt.Time
		e.SentAt = &t
	}
	return e, err
}

// Record appends one history row. SentAt must be nil when delivery
// failed.
func (r *EmailRepo) Record(ctx context.Context, e *model.EmailHistory) error {
	var sentAt interface{}
	if e.SentAt != nil {
		sentAt = *e.SentAt
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO email_history (user_id, booking_id, email_type, recipient_email, subject, body, status, sent_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		e.UserID, e.BookingID, e.EmailType, e.RecipientEmail, e.Subject, e.Body, e.Status, sentAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListAll returns the whole trail, newest first. Admin only.
func (r *EmailRepo) ListAll(ctx context.Context) ([]model.EmailHistory, error) {
	return r.query(ctx, "SELECT "+emailColumns+" FROM email_history ORDER BY created_at DESC")
}

// ListByUser returns the trail for one recipient user, newest first.
func (r *EmailRepo) ListByUser(ctx context.Context, userID uint64) ([]model.EmailHistory, error) {
	return r.query(ctx,
		"SELECT "+emailColumns+" FROM email_history WHERE user_id=? ORDER BY created_at DESC", userID)
}

// GetByID fetches one history entry.
func (r *EmailRepo) GetByID(ctx context.Context, id uint64) (model.EmailHistory, error) {
	return scanEmail(r.DB.QueryRowContext(ctx,
		"SELECT "+emailColumns+" FROM email_history WHERE id=? LIMIT 1", id))
}

func (r *EmailRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.EmailHistory, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	emails := make([]model.EmailHistory, 0)
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}
