// Package mailer renders and sends the booking notification emails and
// records every attempt in the email_history audit trail. Sending is
// best effort: a transport failure is logged and recorded with status
// "failed" but never propagated to the request that triggered it.
package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"time"

	"github.com/iipsyoga/club-booking/internal/model"
)

// Sender delivers one rendered message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// HistoryStore appends one audit row per attempted send. Satisfied by
// repository.EmailRepo.
type HistoryStore interface {
	Record(ctx context.Context, e *model.EmailHistory) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Send builds a MIME message with an HTML body and submits it via
// smtp.SendMail. Authentication is skipped when no username is
// configured, which covers local debug relays.
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.From, to, subject, htmlBody)
	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	return smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{to}, []byte(msg))
}

// Service is the notification side-effect collaborator used by the
// booking handlers.
type Service struct {
	sender  Sender
	history HistoryStore
}

func NewService(sender Sender, history HistoryStore) *Service {
	return &Service{sender: sender, history: history}
}

// SendBookingConfirmation emails the user that their spot is confirmed
// and appends the outcome to the history trail. Errors are swallowed
// after logging.
func (s *Service) SendBookingConfirmation(ctx context.Context, user model.User, event model.Event, booking model.Booking) {
	subject := "Booking Confirmation - " + event.Title
	body, err := renderBookingConfirmation(templateData{
		UserName:      user.Name,
		EventTitle:    event.Title,
		EventDate:     event.Date,
		EventTime:     event.Time,
		EventLocation: event.Location,
		Instructor:    event.Instructor,
		Amount:        booking.Amount,
		BookingID:     booking.ID,
	})
	if err != nil {
		log.Printf("mailer: render booking confirmation failed: %v", err)
		return
	}
	s.deliver(ctx, user, booking.ID, model.EmailBookingConfirmation, subject, body)
}

// SendPaymentSuccess emails the payment receipt and appends the outcome
// to the history trail.
func (s *Service) SendPaymentSuccess(ctx context.Context, user model.User, event model.Event, booking model.Booking, paymentID string) {
	subject := "Payment Successful - " + event.Title
	body, err := renderPaymentSuccess(templateData{
		UserName:   user.Name,
		EventTitle: event.Title,
		Amount:     booking.Amount,
		BookingID:  booking.ID,
		PaymentID:  paymentID,
	})
	if err != nil {
		log.Printf("mailer: render payment success failed: %v", err)
		return
	}
	s.deliver(ctx, user, booking.ID, model.EmailPaymentSuccess, subject, body)
}

// deliver sends the rendered message and records the attempt. The
// history row is written for failures too so the back-office can see
// what never reached the user.
func (s *Service) deliver(ctx context.Context, user model.User, bookingID uint64, emailType, subject, body string) {
	entry := model.EmailHistory{
		UserID:         user.ID,
		BookingID:      bookingID,
		EmailType:      emailType,
		RecipientEmail: user.Email,
		Subject:        subject,
		Body:           body,
		Status:         model.EmailStatusSent,
	}
	if err := s.sender.Send(user.Email, subject, body); err != nil {
		log.Printf("mailer: send %s to %s failed: %v", emailType, user.Email, err)
		entry.Status = model.EmailStatusFailed
	} else {
		now := time.Now().UTC()
		entry.SentAt = &now
	}
	if err := s.history.Record(ctx, &entry); err != nil {
		log.Printf("mailer: record %s history failed: %v", emailType, err)
	}
}
