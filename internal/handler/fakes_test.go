package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iipsyoga/club-booking/internal/model"
	"github.com/iipsyoga/club-booking/internal/payment"
	"github.com/iipsyoga/club-booking/internal/repository"
	"github.com/iipsyoga/club-booking/internal/utils"
	"github.com/iipsyoga/club-booking/internal/validator"
)

// memStore is an in-memory stand-in for the MySQL repositories. It
// implements UserStore, EventStore and BookingStore with the same
// atomicity the real store gets from its conditional UPDATE: the spot
// claim and the duplicate check happen under one lock.
type memStore struct {
	mu          sync.Mutex
	users       map[uint64]model.User
	events      map[uint64]model.Event
	bookings    map[uint64]model.Booking
	nextUser    uint64
	nextBooking uint64
	nextEvent   uint64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uint64]model.User),
		events:   make(map[uint64]model.Event),
		bookings: make(map[uint64]model.Booking),
	}
}

// ----- UserStore -----

func (m *memStore) Create(_ context.Context, name, email, phone, studentID, password string, cost int) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	m.nextUser++
	m.users[m.nextUser] = model.User{
		ID: m.nextUser, Name: name, Email: email, Phone: phone,
		StudentID: studentID, PasswordHash: hash, Role: model.RoleStudent,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	return m.nextUser, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (m *memStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memStore) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) UpdateProfile(_ context.Context, id uint64, name, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Name, u.Phone = name, phone
	m.users[id] = u
	return nil
}

func (m *memStore) UpdatePassword(_ context.Context, id uint64, password string, cost int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

func (m *memStore) UpdateRole(_ context.Context, id uint64, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Role = role
	m.users[id] = u
	return nil
}

func (m *memStore) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) Stats(_ context.Context) (uint64, uint64, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.users)), uint64(len(m.bookings)), uint64(len(m.events)), nil
}

// ----- EventStore -----

func (m *memStore) addEvent(e model.Event) model.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEvent++
	e.ID = m.nextEvent
	m.events[e.ID] = e
	return e
}

func (m *memStore) ListEvents(_ context.Context, eventType string) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		if eventType == "" || e.Type == eventType {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// EventStore's List has a name collision with UserStore's List, so the
// fake satisfies EventStore through a thin wrapper type.
type memEvents struct{ *memStore }

func (m memEvents) List(ctx context.Context, eventType string) ([]model.Event, error) {
	return m.ListEvents(ctx, eventType)
}

func (m memEvents) ListUpcoming(ctx context.Context, today time.Time) ([]model.Event, error) {
	all, _ := m.ListEvents(ctx, model.EventTypeUpcoming)
	cutoff := today.Format("2006-01-02")
	out := all[:0]
	for _, e := range all {
		if e.Date >= cutoff {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m memEvents) ListPrevious(ctx context.Context) ([]model.Event, error) {
	return m.ListEvents(ctx, model.EventTypePrevious)
}

func (m memEvents) GetByID(_ context.Context, id uint64) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return model.Event{}, sql.ErrNoRows
	}
	return e, nil
}

func (m memEvents) Create(_ context.Context, e *model.Event) (uint64, error) {
	created := m.addEvent(*e)
	return created.ID, nil
}

func (m memEvents) Update(_ context.Context, id uint64, e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.events[id]
	if !ok {
		return sql.ErrNoRows
	}
	upd := *e
	upd.ID = id
	upd.CurrentParticipants = cur.CurrentParticipants
	m.events[id] = upd
	return nil
}

func (m memEvents) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.events, id)
	return nil
}

// ----- BookingStore -----

func (m *memStore) CreateForEvent(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[b.EventID]
	if !ok {
		return sql.ErrNoRows
	}
	if e.CurrentParticipants >= e.MaxParticipants {
		return repository.ErrEventFull
	}
	for _, existing := range m.bookings {
		if existing.UserID == b.UserID && existing.EventID == b.EventID {
			return repository.ErrAlreadyBooked
		}
	}
	e.CurrentParticipants++
	m.events[e.ID] = e
	m.nextBooking++
	b.ID = m.nextBooking
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.bookings[b.ID] = *b
	return nil
}

func (m *memStore) Cancel(_ context.Context, id, eventID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.bookings, id)
	if e, ok := m.events[eventID]; ok && e.CurrentParticipants > 0 {
		e.CurrentParticipants--
		m.events[eventID] = e
	}
	return nil
}

func (m *memStore) GetBooking(_ context.Context, id uint64) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return model.Booking{}, sql.ErrNoRows
	}
	return b, nil
}

func (m *memStore) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Booking, error) {
	b, err := m.GetBooking(ctx, id)
	if err != nil || b.UserID != userID {
		return model.Booking{}, sql.ErrNoRows
	}
	return b, nil
}

func (m *memStore) ExistsForUserEvent(_ context.Context, userID, eventID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.UserID == userID && b.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) MarkCompleted(_ context.Context, id uint64, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return sql.ErrNoRows
	}
	b.PaymentStatus = model.PaymentCompleted
	b.PaymentID = &paymentID
	m.bookings[id] = b
	return nil
}

func (m *memStore) detail(b model.Booking) repository.BookingDetail {
	d := repository.BookingDetail{Booking: b}
	if u, ok := m.users[b.UserID]; ok {
		d.UserName, d.UserEmail, d.UserPhone, d.UserStudentID = u.Name, u.Email, u.Phone, u.StudentID
	}
	if e, ok := m.events[b.EventID]; ok {
		d.EventTitle, d.EventDate, d.EventTime, d.EventLocation, d.Instructor =
			e.Title, e.Date, e.Time, e.Location, e.Instructor
	}
	return d
}

func (m *memStore) ListAll(_ context.Context) ([]repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.BookingDetail, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, m.detail(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) ListByUser(_ context.Context, userID uint64) ([]repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.BookingDetail
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, m.detail(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) GetDetail(_ context.Context, id uint64) (repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return repository.BookingDetail{}, sql.ErrNoRows
	}
	return m.detail(b), nil
}

// memBookings resolves the GetByID collision with UserStore the same
// way memEvents does.
type memBookings struct{ *memStore }

func (m memBookings) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	return m.GetBooking(ctx, id)
}

// ----- collaborators -----

// recordingNotifier captures notification calls instead of sending mail.
type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []uint64 // booking ids
	receipts      []uint64
}

func (n *recordingNotifier) SendBookingConfirmation(_ context.Context, _ model.User, _ model.Event, b model.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, b.ID)
}

func (n *recordingNotifier) SendPaymentSuccess(_ context.Context, _ model.User, _ model.Event, b model.Booking, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.receipts = append(n.receipts, b.ID)
}

// stubGateway is a no-delay gateway; failVerify flips verification to a
// declined result.
type stubGateway struct {
	failVerify bool
}

func (g *stubGateway) Initiate(_ context.Context, amount uint32, customer payment.CustomerInfo, event payment.EventInfo) (payment.Initiation, error) {
	return payment.Initiation{
		OrderID:       "ORDER_test",
		TransactionID: "TXN_test",
		PaymentURL:    "http://localhost:5173/payment/checkout?orderId=ORDER_test",
		Request: payment.Request{
			OrderID: "ORDER_test", TransactionID: "TXN_test",
			Amount: amount, Currency: "INR",
			UserInfo: customer, EventInfo: event,
		},
	}, nil
}

func (g *stubGateway) Verify(_ context.Context, paymentID, orderID string) (payment.Verification, error) {
	return payment.Verification{
		Success:   !g.failVerify,
		PaymentID: paymentID,
		OrderID:   orderID,
	}, nil
}

// ----- request plumbing -----

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	return e
}

type testReq struct {
	method string
	path   string
	body   string
	uid    uint64
	role   string
	params map[string]string
}

// invoke runs a handler directly with an authenticated context, the way
// it would execute after the JWT middleware.
func invoke(t *testing.T, e *echo.Echo, h echo.HandlerFunc, r testReq) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(r.method, r.path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if r.uid != 0 {
		c.Set("user_id", r.uid)
		c.Set("role", r.role)
	}
	if len(r.params) > 0 {
		names := make([]string, 0, len(r.params))
		values := make([]string, 0, len(r.params))
		for k, v := range r.params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func wantBodyContains(t *testing.T, rec *httptest.ResponseRecorder, substr string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), substr) {
		t.Fatalf("body %q does not contain %q", rec.Body.String(), substr)
	}
}

// seedUser registers a user straight into the store and returns it.
func seedUser(t *testing.T, m *memStore, email, role string) model.User {
	t.Helper()
	id, err := m.Create(context.Background(), "Test User", email, "9999999999", fmt.Sprintf("IIPS%03d", m.nextUser+1), "secret123", 4)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if role != model.RoleStudent {
		if err := m.UpdateRole(context.Background(), id, role); err != nil {
			t.Fatalf("seed role: %v", err)
		}
	}
	u, _ := m.GetByID(context.Background(), id)
	return u
}
