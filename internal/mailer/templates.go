package mailer

import (
	"bytes"
	"html/template"
	"time"
)

// The two fixed notification templates the club sends. They are parsed
// once at package init; a malformed template is a programming error and
// should fail fast.

var bookingConfirmationTmpl = template.Must(template.New("booking_confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #4CAF50; color: white; padding: 20px; text-align: center; }
    .content { padding: 20px; background: #f9f9f9; }
    .details { background: white; padding: 15px; margin: 10px 0; border-radius: 5px; }
    .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Booking Confirmed!</h1>
    </div>
    <div class="content">
      <p>Dear {{.UserName}},</p>
      <p>Your booking has been successfully confirmed for the following event:</p>

      <div class="details">
        <h3>{{.EventTitle}}</h3>
        <p><strong>Date:</strong> {{.EventDate}}</p>
        <p><strong>Time:</strong> {{.EventTime}}</p>
        <p><strong>Location:</strong> {{.EventLocation}}</p>
        <p><strong>Instructor:</strong> {{.Instructor}}</p>
        <p><strong>Amount Paid:</strong> ₹{{.Amount}}</p>
        <p><strong>Booking ID:</strong> {{.BookingID}}</p>
      </div>

      <p>We look forward to seeing you at the event!</p>
      <p>If you have any questions, please contact us.</p>
    </div>
    <div class="footer">
      <p>IIPS Yoga and Fitness Club</p>
      <p>International Institute of Professional Studies, DAVV Indore</p>
    </div>
  </div>
</body>
</html>`))

var paymentSuccessTmpl = template.Must(template.New("payment_success").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #2196F3; color: white; padding: 20px; text-align: center; }
    .content { padding: 20px; background: #f9f9f9; }
    .details { background: white; padding: 15px; margin: 10px 0; border-radius: 5px; }
    .success { color: #4CAF50; font-weight: bold; }
    .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Payment Successful!</h1>
    </div>
    <div class="content">
      <p>Dear {{.UserName}},</p>
      <p class="success">Your payment has been successfully processed.</p>

      <div class="details">
        <h3>Payment Details</h3>
        <p><strong>Event:</strong> {{.EventTitle}}</p>
        <p><strong>Amount:</strong> ₹{{.Amount}}</p>
        <p><strong>Payment ID:</strong> {{.PaymentID}}</p>
        <p><strong>Booking ID:</strong> {{.BookingID}}</p>
        <p><strong>Date:</strong> {{.Today}}</p>
      </div>

      <p>Your spot has been reserved for the event. We will send you a reminder before the event date.</p>
    </div>
    <div class="footer">
      <p>IIPS Yoga and Fitness Club</p>
      <p>International Institute of Professional Studies, DAVV Indore</p>
    </div>
  </div>
</body>
</html>`))

// templateData carries every field either template can reference.
type templateData struct {
	UserName      string
	EventTitle    string
	EventDate     string
	EventTime     string
	EventLocation string
	Instructor    string
	Amount        uint32
	BookingID     uint64
	PaymentID     string
	Today         string
}

func renderBookingConfirmation(d templateData) (string, error) {
	var buf bytes.Buffer
	if err := bookingConfirmationTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderPaymentSuccess(d templateData) (string, error) {
	d.Today = time.Now().Format("02/01/2006")
	var buf bytes.Buffer
	if err := paymentSuccessTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
