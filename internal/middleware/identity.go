package middleware

// identity.go holds helpers shared across middleware files. The rate
// limiter keys buckets per user where possible; unauthenticated traffic
// collapses into a shared "anon" identity per IP.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id as a string, or "anon"
// when the request carries no identity (public routes, or routes placed
// before JWTAuth in the chain).
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case string:
		if v != "" {
			return v
		}
	}
	return "anon"
}
