// Package payment models the club's payment gateway. No real gateway is
// integrated: Initiate assembles the same request a hosted checkout
// would receive and Verify reports success after a fixed delay. Both sit
// behind interfaces so handlers and tests can swap in real or failing
// implementations.
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Initiator produces an order for a checkout session.
type Initiator interface {
	Initiate(ctx context.Context, amount uint32, user CustomerInfo, event EventInfo) (Initiation, error)
}

// Verifier checks a payment against the gateway. Implementations must be
// safe to call with ids the caller has not validated.
type Verifier interface {
	Verify(ctx context.Context, paymentID, orderID string) (Verification, error)
}

// CustomerInfo is the payer subset forwarded to the gateway.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// EventInfo is the purchase subset forwarded to the gateway.
type EventInfo struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Request mirrors the payload a hosted checkout page consumes.
type Request struct {
	OrderID       string       `json:"orderId"`
	TransactionID string       `json:"transactionId"`
	Amount        uint32       `json:"amount"`
	Currency      string       `json:"currency"`
	UserInfo      CustomerInfo `json:"userInfo"`
	EventInfo     EventInfo    `json:"eventInfo"`
	CallbackURL   string       `json:"callbackUrl"`
	RedirectURL   string       `json:"redirectUrl"`
}

// Initiation is the result of starting a checkout session.
type Initiation struct {
	PaymentURL    string  `json:"paymentUrl"`
	OrderID       string  `json:"orderId"`
	TransactionID string  `json:"transactionId"`
	Request       Request `json:"paymentRequest"`
}

// Verification is the gateway's answer to a verify call.
type Verification struct {
	Success    bool      `json:"success"`
	PaymentID  string    `json:"paymentId"`
	OrderID    string    `json:"orderId"`
	Status     string    `json:"status"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

// Refund is the result of refunding a completed payment.
type Refund struct {
	RefundID   string    `json:"refundId"`
	PaymentID  string    `json:"paymentId"`
	Amount     uint32    `json:"amount"`
	Status     string    `json:"status"`
	RefundedAt time.Time `json:"refundedAt"`
}

// Gateway is the simulated implementation used in every current
// deployment. FrontendURL is the base for the hosted checkout and
// redirect targets; VerifyDelay imitates gateway latency.
type Gateway struct {
	FrontendURL string
	VerifyDelay time.Duration
}

// NewGateway returns a simulated gateway with a one-second verify
// delay, enough for the frontend's progress states to be visible.
func NewGateway(frontendURL string) *Gateway {
	return &Gateway{FrontendURL: frontendURL, VerifyDelay: time.Second}
}

// Initiate creates opaque order and transaction identifiers and the
// checkout request. It never fails.
func (g *Gateway) Initiate(ctx context.Context, amount uint32, user CustomerInfo, event EventInfo) (Initiation, error) {
	orderID := "ORDER_" + uuid.NewString()
	transactionID := "TXN_" + uuid.NewString()
	return Initiation{
		PaymentURL:    g.FrontendURL + "/payment/gateway",
		OrderID:       orderID,
		TransactionID: transactionID,
		Request: Request{
			OrderID:       orderID,
			TransactionID: transactionID,
			Amount:        amount,
			Currency:      "INR",
			UserInfo:      user,
			EventInfo:     event,
			CallbackURL:   g.FrontendURL + "/payment/callback",
			RedirectURL:   g.FrontendURL + "/payment/status",
		},
	}, nil
}

// Verify waits for the configured delay and reports success. The context
// is honored so a cancelled request does not hang on the simulated
// latency.
func (g *Gateway) Verify(ctx context.Context, paymentID, orderID string) (Verification, error) {
	if g.VerifyDelay > 0 {
		select {
		case <-time.After(g.VerifyDelay):
		case <-ctx.Done():
			return Verification{}, ctx.Err()
		}
	}
	return Verification{
		Success:    true,
		PaymentID:  paymentID,
		OrderID:    orderID,
		Status:     "completed",
		VerifiedAt: time.Now().UTC(),
	}, nil
}

// RefundPayment simulates refunding a payment. Unused by the HTTP
// surface today; kept for the admin tooling.
func (g *Gateway) RefundPayment(ctx context.Context, paymentID string, amount uint32) (Refund, error) {
	if g.VerifyDelay > 0 {
		select {
		case <-time.After(g.VerifyDelay):
		case <-ctx.Done():
			return Refund{}, ctx.Err()
		}
	}
	return Refund{
		RefundID:   "REFUND_" + uuid.NewString(),
		PaymentID:  paymentID,
		Amount:     amount,
		Status:     "refunded",
		RefundedAt: time.Now().UTC(),
	}, nil
}
