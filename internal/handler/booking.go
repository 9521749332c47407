package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iipsyoga/club-booking/internal/model"
	"github.com/iipsyoga/club-booking/internal/payment"
	"github.com/iipsyoga/club-booking/internal/queue"
	"github.com/iipsyoga/club-booking/internal/repository"
)

// BookingStore is the persistence surface of the booking workflow.
// Satisfied by repository.BookingRepo.
type BookingStore interface {
	CreateForEvent(ctx context.Context, b *model.Booking) error
	Cancel(ctx context.Context, id, eventID uint64) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	GetByIDForUser(ctx context.Context, id, userID uint64) (model.Booking, error)
	ExistsForUserEvent(ctx context.Context, userID, eventID uint64) (bool, error)
	MarkCompleted(ctx context.Context, id uint64, paymentID string) error
	ListAll(ctx context.Context) ([]repository.BookingDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
	GetDetail(ctx context.Context, id uint64) (repository.BookingDetail, error)
}

// PaymentGateway is the external payment collaborator. The simulated
// gateway in internal/payment implements it; tests substitute failing
// or recording variants.
type PaymentGateway interface {
	payment.Initiator
	payment.Verifier
}

// Notifier delivers the booking notification emails. Errors are the
// notifier's problem: it logs and records, never fails the request.
// Satisfied by mailer.Service.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, user model.User, event model.Event, booking model.Booking)
	SendPaymentSuccess(ctx context.Context, user model.User, event model.Event, booking model.Booking, paymentID string)
}

// BookingHandler implements the booking workflow: create, pay, verify,
// cancel, plus the listing endpoints.
type BookingHandler struct {
	Bookings BookingStore
	Events   EventStore
	Users    UserStore
	Gateway  PaymentGateway
	Mailer   Notifier

	// Publish emits the booking.confirmed domain event. Best effort;
	// defaults to queue.PublishBookingConfirmed.
	Publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

func NewBookingHandler(bookings BookingStore, events EventStore, users UserStore, gateway PaymentGateway, mailer Notifier) *BookingHandler {
	return &BookingHandler{
		Bookings: bookings,
		Events:   events,
		Users:    users,
		Gateway:  gateway,
		Mailer:   mailer,
		Publish:  queue.PublishBookingConfirmed,
	}
}

type createBookingReq struct {
	EventID uint64 `json:"eventId" validate:"required"`
}

type verifyPaymentReq struct {
	PaymentID string `json:"paymentId" validate:"required"`
	OrderID   string `json:"orderId" validate:"required"`
}

func bookingID(c echo.Context, param string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid booking id")
	}
	return id, nil
}

// Create books a spot on an event for the caller. The capacity check
// and the occupancy increment are one conditional statement inside the
// store, so two requests racing for the last open spot cannot both
// succeed; the pre-checks here only produce friendlier messages.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	event, err := h.Events.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if event.CurrentParticipants >= event.MaxParticipants {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Event is fully booked"})
	}
	exists, err := h.Bookings.ExistsForUserEvent(ctx, uid, event.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "You have already booked this event"})
	}

	booking := model.Booking{
		UserID:        uid,
		EventID:       event.ID,
		Amount:        event.Price,
		PaymentStatus: model.PaymentPending,
	}
	if event.IsFree() {
		booking.PaymentStatus = model.PaymentCompleted
	}
	if err := h.Bookings.CreateForEvent(ctx, &booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventFull):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Event is fully booked"})
		case errors.Is(err, repository.ErrAlreadyBooked):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "You have already booked this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	// Free events are confirmed immediately: notify and publish now.
	if event.IsFree() {
		if user, err := h.Users.GetByID(ctx, uid); err == nil {
			h.Mailer.SendBookingConfirmation(ctx, user, event, booking)
			h.publishConfirmed(ctx, user, event, booking, "")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":         "Booking created successfully",
		"booking":         booking,
		"requiresPayment": !event.IsFree(),
	})
}

// InitiatePayment starts a checkout session for the caller's pending
// booking. The gateway is simulated but the request it assembles is the
// real contract a hosted page would consume.
func (h *BookingHandler) InitiatePayment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := bookingID(c, "bookingId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	booking, err := h.Bookings.GetByIDForUser(ctx, id, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if booking.PaymentStatus == model.PaymentCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Payment already completed"})
	}

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	event, err := h.Events.GetByID(ctx, booking.EventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	initiation, err := h.Gateway.Initiate(ctx, booking.Amount,
		payment.CustomerInfo{Name: user.Name, Email: user.Email, Phone: user.Phone},
		payment.EventInfo{Title: event.Title, Date: event.Date})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "initiate payment failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Payment initiated",
		"paymentUrl":     initiation.PaymentURL,
		"orderId":        initiation.OrderID,
		"transactionId":  initiation.TransactionID,
		"paymentRequest": initiation.Request,
	})
}

// VerifyPayment confirms a pending booking with the gateway. Verifying
// a booking that is already completed is rejected rather than treated
// as a no-op, mirroring the initiate-payment guard; a repeat call can
// therefore never double-notify.
func (h *BookingHandler) VerifyPayment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := bookingID(c, "bookingId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req verifyPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	booking, err := h.Bookings.GetByIDForUser(ctx, id, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if booking.PaymentStatus == model.PaymentCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Payment already completed"})
	}

	verification, err := h.Gateway.Verify(ctx, req.PaymentID, req.OrderID)
	if err != nil || !verification.Success {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Payment verification failed"})
	}

	if err := h.Bookings.MarkCompleted(ctx, booking.ID, req.PaymentID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booking failed"})
	}
	booking.PaymentStatus = model.PaymentCompleted
	booking.PaymentID = &req.PaymentID

	user, userErr := h.Users.GetByID(ctx, uid)
	event, eventErr := h.Events.GetByID(ctx, booking.EventID)
	if userErr == nil && eventErr == nil {
		h.Mailer.SendPaymentSuccess(ctx, user, event, booking, req.PaymentID)
		h.Mailer.SendBookingConfirmation(ctx, user, event, booking)
		h.publishConfirmed(ctx, user, event, booking, req.PaymentID)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Payment verified successfully",
		"booking": booking,
	})
}

// Cancel deletes a booking and releases its spot. Allowed for the owner
// or an admin.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := bookingID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	booking, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if booking.UserID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
	}

	if err := h.Bookings.Cancel(ctx, booking.ID, booking.EventID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel booking failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking cancelled successfully"})
}

// ListAll returns every booking with user/event context. Admin only.
func (h *BookingHandler) ListAll(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	bookings, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// ListMine returns the caller's bookings with event context.
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	bookings, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// Get returns one booking with context; owner or admin only.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := bookingID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	detail, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if detail.UserID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": detail})
}

// publishConfirmed emits the booking.confirmed event. Failures are
// already logged by the publisher; the request is never affected.
func (h *BookingHandler) publishConfirmed(ctx context.Context, user model.User, event model.Event, booking model.Booking, paymentID string) {
	if h.Publish == nil {
		return
	}
	_ = h.Publish(ctx, queue.BookingConfirmedEvent{
		BookingID:     booking.ID,
		UserID:        user.ID,
		UserEmail:     user.Email,
		EventID:       event.ID,
		EventTitle:    event.Title,
		EventDate:     event.Date,
		EventTime:     event.Time,
		EventLocation: event.Location,
		Amount:        booking.Amount,
		PaymentID:     paymentID,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}
