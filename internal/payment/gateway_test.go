package payment

import (
	"context"
	"strings"
	"testing"
	"time"
)

func testGateway() *Gateway {
	return &Gateway{FrontendURL: "http://localhost:5173"} // zero delay
}

func TestInitiate(t *testing.T) {
	g := testGateway()
	init, err := g.Initiate(context.Background(), 500,
		CustomerInfo{Name: "Priya", Email: "priya@iips.edu", Phone: "9876543210"},
		EventInfo{Title: "Morning Yoga", Date: "2026-09-15"})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if !strings.HasPrefix(init.OrderID, "ORDER_") {
		t.Errorf("order id %q lacks ORDER_ prefix", init.OrderID)
	}
	if !strings.HasPrefix(init.TransactionID, "TXN_") {
		t.Errorf("transaction id %q lacks TXN_ prefix", init.TransactionID)
	}
	if init.PaymentURL != "http://localhost:5173/payment/gateway" {
		t.Errorf("payment url = %q", init.PaymentURL)
	}
	if init.Request.Amount != 500 || init.Request.Currency != "INR" {
		t.Errorf("request = %+v, want amount 500 INR", init.Request)
	}
	if init.Request.OrderID != init.OrderID {
		t.Error("request order id does not match initiation")
	}
	if init.Request.UserInfo.Email != "priya@iips.edu" {
		t.Errorf("customer not forwarded: %+v", init.Request.UserInfo)
	}

	// Identifiers must be unique per call.
	again, _ := g.Initiate(context.Background(), 500, CustomerInfo{}, EventInfo{})
	if again.OrderID == init.OrderID || again.TransactionID == init.TransactionID {
		t.Error("identifiers repeated across initiations")
	}
}

func TestVerifyAlwaysSucceeds(t *testing.T) {
	g := testGateway()
	v, err := g.Verify(context.Background(), "TXN_abc", "ORDER_abc")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !v.Success || v.Status != "completed" {
		t.Errorf("verification = %+v, want success/completed", v)
	}
	if v.PaymentID != "TXN_abc" || v.OrderID != "ORDER_abc" {
		t.Errorf("ids not echoed: %+v", v)
	}
}

func TestVerifyHonorsContext(t *testing.T) {
	g := &Gateway{FrontendURL: "http://localhost:5173", VerifyDelay: time.Minute}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := g.Verify(ctx, "TXN_abc", "ORDER_abc"); err == nil {
		t.Error("verify ignored cancelled context")
	}
}

func TestRefund(t *testing.T) {
	g := testGateway()
	r, err := g.RefundPayment(context.Background(), "TXN_abc", 500)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if !strings.HasPrefix(r.RefundID, "REFUND_") {
		t.Errorf("refund id %q lacks REFUND_ prefix", r.RefundID)
	}
	if r.Status != "refunded" || r.Amount != 500 {
		t.Errorf("refund = %+v", r)
	}
}
