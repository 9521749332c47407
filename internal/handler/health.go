package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health reports liveness for load balancers and uptime monitors.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Root is the banner served at "/" so hitting the bare host answers
// something more useful than a 404.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "IIPS Yoga and Fitness Club API",
		"version": "1.0.0",
		"status":  "running",
	})
}
