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
)

// EventStore is the persistence surface of the event catalog. Satisfied
// by repository.EventRepo.
type EventStore interface {
	List(ctx context.Context, eventType string) ([]model.Event, error)
	ListUpcoming(ctx context.Context, today time.Time) ([]model.Event, error)
	ListPrevious(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	Create(ctx context.Context, e *model.Event) (uint64, error)
	Update(ctx context.Context, id uint64, e *model.Event) error
	Delete(ctx context.Context, id uint64) error
}

// EventHandler serves the public catalog and the admin mutation verbs.
type EventHandler struct {
	Events EventStore
}

func NewEventHandler(events EventStore) *EventHandler {
	return &EventHandler{Events: events}
}

type eventReq struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	Date            string `json:"date" validate:"required"` // YYYY-MM-DD
	Time            string `json:"time" validate:"required"`
	Location        string `json:"location" validate:"required"`
	MaxParticipants uint32 `json:"maxParticipants" validate:"required,gt=0"`
	Price           uint32 `json:"price"`
	Image           string `json:"image"`
	Type            string `json:"type" validate:"omitempty,oneof=upcoming previous"`
	Instructor      string `json:"instructor"`
}

func (r *eventReq) toModel() model.Event {
	t := r.Type
	if t == "" {
		t = model.EventTypeUpcoming
	}
	return model.Event{
		Title:           r.Title,
		Description:     r.Description,
		Date:            r.Date,
		Time:            r.Time,
		Location:        r.Location,
		MaxParticipants: r.MaxParticipants,
		Price:           r.Price,
		Image:           r.Image,
		Type:            t,
		Instructor:      r.Instructor,
	}
}

func eventID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid event id")
	}
	return id, nil
}

// List returns every event, optionally filtered by ?type=.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	events, err := h.Events.List(ctx, c.QueryParam("type"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// ListUpcoming returns bookable events whose date has not passed.
func (h *EventHandler) ListUpcoming(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	events, err := h.Events.ListUpcoming(ctx, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// ListPrevious returns past events for the marketing pages.
func (h *EventHandler) ListPrevious(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	events, err := h.Events.ListPrevious(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// Get returns one event by id.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event": event})
}

// Create inserts an event. Admin only (enforced by middleware).
func (h *EventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	event := req.toModel()
	id, err := h.Events.Create(ctx, &event)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	created, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Event created successfully",
		"event":   created,
	})
}

// Update rewrites an event's details. Admin only.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	event := req.toModel()
	if err := h.Events.Update(ctx, id, &event); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
	}
	updated, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Event updated successfully",
		"event":   updated,
	})
}

// Delete removes an event and, via the store's cascade, its bookings.
// Admin only.
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Event deleted successfully"})
}
