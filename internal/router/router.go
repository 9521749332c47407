// Package router wires the HTTP surface: which handler serves which
// path and which middleware guards it.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iipsyoga/club-booking/internal/config"
	"github.com/iipsyoga/club-booking/internal/handler"
	"github.com/iipsyoga/club-booking/internal/middleware"
)

// RegisterCore mounts the banner and the health check. Neither requires
// authentication.
func RegisterCore(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/api/health", handler.Health)
}

// RegisterAuth mounts registration, login and the profile endpoints.
// Register and login are rate limited per client to slow down
// credential stuffing; everything under the group below them carries a
// session token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)

	me := e.Group("/api/auth", middleware.JWTAuth(jwtSecret))
	me.GET("/profile", a.GetProfile)
	me.PUT("/profile", a.UpdateProfile)
	me.POST("/change-password", a.ChangePassword)
}

// RegisterEvents mounts the event catalog. Reads are public and sit
// behind the response cache; writes are admin only.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	pub := e.Group("/api/events", cache)
	pub.GET("", h.List)
	pub.GET("/upcoming", h.ListUpcoming)
	pub.GET("/previous", h.ListPrevious)
	pub.GET("/:id", h.Get)

	admin := e.Group("/api/events", middleware.JWTAuth(jwtSecret), middleware.RequireRole("admin"))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

// RegisterBookings mounts the booking workflow. Every route requires a
// session; creation and the payment steps are rate limited.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/bookings", middleware.JWTAuth(jwtSecret))
	g.POST("", h.Create, limiter)
	g.GET("/all", h.ListAll, middleware.RequireRole("admin"))
	g.GET("/my-bookings", h.ListMine)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Cancel)
	g.POST("/:bookingId/initiate-payment", h.InitiatePayment, limiter)
	g.POST("/:bookingId/verify-payment", h.VerifyPayment, limiter)
}

// RegisterUsers mounts the admin back-office over user accounts.
func RegisterUsers(e *echo.Echo, h *handler.AdminUserHandler, jwtSecret string) {
	g := e.Group("/api/users", middleware.JWTAuth(jwtSecret), middleware.RequireRole("admin"))
	g.GET("", h.List)
	g.GET("/stats", h.Stats)
	g.GET("/:id", h.Get)
	g.PUT("/:id/role", h.UpdateRole)
	g.DELETE("/:id", h.Delete)
}

// RegisterEmails mounts the email history. Users see their own mail;
// the full log is admin only.
func RegisterEmails(e *echo.Echo, h *handler.EmailHandler, jwtSecret string) {
	g := e.Group("/api/emails", middleware.JWTAuth(jwtSecret))
	g.GET("", h.ListAll, middleware.RequireRole("admin"))
	g.GET("/my-emails", h.ListMine)
	g.GET("/:id", h.Get)
}

// Middlewares builds the shared cache and rate-limit middleware from
// config and an optional Redis client. With no Redis both are pass
// through, so the API degrades instead of refusing to start.
func Middlewares(rdb *redis.Client) (cache, limiter echo.MiddlewareFunc) {
	cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	return cache, limiter
}
