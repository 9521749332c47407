package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iipsyoga/club-booking/internal/model"
)

// EmailStore reads the sent-email audit trail. Satisfied by
// repository.EmailRepo.
type EmailStore interface {
	ListAll(ctx context.Context) ([]model.EmailHistory, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.EmailHistory, error)
	GetByID(ctx context.Context, id uint64) (model.EmailHistory, error)
}

// EmailHandler exposes the email history: the full log to admins and a
// personal view to each user.
type EmailHandler struct {
	Emails EmailStore
}

func NewEmailHandler(emails EmailStore) *EmailHandler {
	return &EmailHandler{Emails: emails}
}

// ListAll returns every recorded email, newest first. Admin only.
func (h *EmailHandler) ListAll(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	emails, err := h.Emails.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"emails": emails, "count": len(emails)})
}

// ListMine returns the caller's own emails.
func (h *EmailHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	emails, err := h.Emails.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"emails": emails, "count": len(emails)})
}

// Get returns one recorded email, body included. Owner or admin only.
func (h *EmailHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	email, err := h.Emails.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Email not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if email.UserID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
	}
	return c.JSON(http.StatusOK, echo.Map{"email": email})
}
