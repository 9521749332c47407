package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iipsyoga/club-booking/internal/model"
)

// AdminUserHandler is the admin back-office over user accounts.
type AdminUserHandler struct {
	Users UserStore
}

func NewAdminUserHandler(users UserStore) *AdminUserHandler {
	return &AdminUserHandler{Users: users}
}

type updateRoleReq struct {
	Role string `json:"role" validate:"required,oneof=student admin"`
}

func userIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid user id")
	}
	return id, nil
}

// List returns every registered user, newest first.
func (h *AdminUserHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "count": len(users)})
}

// Get returns a single user by id.
func (h *AdminUserHandler) Get(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UpdateRole promotes or demotes a user between student and admin.
func (h *AdminUserHandler) UpdateRole(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Role != model.RoleStudent && req.Role != model.RoleAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid role"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.UpdateRole(ctx, user.ID, req.Role); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}
	user.Role = req.Role
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User role updated successfully",
		"user":    user,
	})
}

// Delete removes a user account. Admins cannot remove themselves.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := userIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if id == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cannot delete your own account"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// Stats returns the dashboard counters.
func (h *AdminUserHandler) Stats(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	users, bookings, events, err := h.Users.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": echo.Map{
		"totalUsers":    users,
		"totalBookings": bookings,
		"totalEvents":   events,
	}})
}
