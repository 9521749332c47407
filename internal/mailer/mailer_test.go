package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iipsyoga/club-booking/internal/model"
)

type stubSender struct {
	fail bool
	sent int
	to   string
	sub  string
	body string
}

func (s *stubSender) Send(to, subject, htmlBody string) error {
	if s.fail {
		return errors.New("relay unreachable")
	}
	s.sent++
	s.to, s.sub, s.body = to, subject, htmlBody
	return nil
}

type stubHistory struct {
	records []model.EmailHistory
	fail    bool
}

func (h *stubHistory) Record(_ context.Context, e *model.EmailHistory) error {
	if h.fail {
		return errors.New("insert failed")
	}
	h.records = append(h.records, *e)
	return nil
}

func fixtures() (model.User, model.Event, model.Booking) {
	user := model.User{ID: 1, Name: "Priya", Email: "priya@iips.edu"}
	event := model.Event{
		ID: 2, Title: "Morning Yoga", Date: "2026-09-15", Time: "07:00",
		Location: "IIPS Lawn", Instructor: "Asha", Price: 500,
	}
	booking := model.Booking{ID: 3, UserID: 1, EventID: 2, Amount: 500}
	return user, event, booking
}

func TestSendBookingConfirmation(t *testing.T) {
	sender := &stubSender{}
	history := &stubHistory{}
	svc := NewService(sender, history)
	user, event, booking := fixtures()

	svc.SendBookingConfirmation(context.Background(), user, event, booking)

	if sender.sent != 1 {
		t.Fatalf("sent = %d, want 1", sender.sent)
	}
	if sender.to != "priya@iips.edu" {
		t.Errorf("to = %q", sender.to)
	}
	if sender.sub != "Booking Confirmation - Morning Yoga" {
		t.Errorf("subject = %q", sender.sub)
	}
	for _, want := range []string{"Priya", "Morning Yoga", "2026-09-15", "07:00", "IIPS Lawn", "Asha", "IIPS Yoga and Fitness Club"} {
		if !strings.Contains(sender.body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	if len(history.records) != 1 {
		t.Fatalf("history records = %d, want 1", len(history.records))
	}
	rec := history.records[0]
	if rec.Status != model.EmailStatusSent || rec.SentAt == nil {
		t.Errorf("record = %+v, want sent with timestamp", rec)
	}
	if rec.EmailType != model.EmailBookingConfirmation || rec.BookingID != 3 || rec.UserID != 1 {
		t.Errorf("record linkage wrong: %+v", rec)
	}
	if rec.Body == "" {
		t.Error("record body not snapshotted")
	}
}

func TestSendPaymentSuccess(t *testing.T) {
	sender := &stubSender{}
	history := &stubHistory{}
	svc := NewService(sender, history)
	user, event, booking := fixtures()

	svc.SendPaymentSuccess(context.Background(), user, event, booking, "TXN_abc")

	if sender.sub != "Payment Successful - Morning Yoga" {
		t.Errorf("subject = %q", sender.sub)
	}
	if !strings.Contains(sender.body, "TXN_abc") {
		t.Error("body missing payment id")
	}
	if len(history.records) != 1 || history.records[0].EmailType != model.EmailPaymentSuccess {
		t.Errorf("history = %+v", history.records)
	}
}

// A dead relay must still leave an audit record, marked failed and with
// no sent timestamp, and must not panic or surface an error.
func TestSendFailureIsRecordedAndSwallowed(t *testing.T) {
	sender := &stubSender{fail: true}
	history := &stubHistory{}
	svc := NewService(sender, history)
	user, event, booking := fixtures()

	svc.SendBookingConfirmation(context.Background(), user, event, booking)

	if len(history.records) != 1 {
		t.Fatalf("history records = %d, want 1", len(history.records))
	}
	rec := history.records[0]
	if rec.Status != model.EmailStatusFailed {
		t.Errorf("status = %q, want failed", rec.Status)
	}
	if rec.SentAt != nil {
		t.Errorf("failed delivery has sent timestamp %v", rec.SentAt)
	}
}

// A broken history store must not break sending either.
func TestHistoryFailureIsSwallowed(t *testing.T) {
	sender := &stubSender{}
	svc := NewService(sender, &stubHistory{fail: true})
	user, event, booking := fixtures()

	svc.SendBookingConfirmation(context.Background(), user, event, booking)
	if sender.sent != 1 {
		t.Errorf("sent = %d, want 1", sender.sent)
	}
}

func TestRenderPaymentSuccessStampsDate(t *testing.T) {
	body, err := renderPaymentSuccess(templateData{
		UserName: "Priya", EventTitle: "Morning Yoga", Amount: 500,
		BookingID: 9, PaymentID: "TXN_abc",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	today := time.Now().Format("02/01/2006")
	if !strings.Contains(body, today) {
		t.Errorf("body missing today's date %s", today)
	}
}
