package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iipsyoga/club-booking/internal/config"
	"github.com/iipsyoga/club-booking/internal/database"
	"github.com/iipsyoga/club-booking/internal/handler"
	"github.com/iipsyoga/club-booking/internal/mailer"
	"github.com/iipsyoga/club-booking/internal/payment"
	"github.com/iipsyoga/club-booking/internal/queue"
	"github.com/iipsyoga/club-booking/internal/repository"
	"github.com/iipsyoga/club-booking/internal/router"
	"github.com/iipsyoga/club-booking/internal/validator"
)

func main() {
	// .env is a convenience for local development; in deployment the
	// variables come from the environment itself.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()

	users := &repository.UserRepo{DB: db}
	events := &repository.EventRepo{DB: db}
	bookings := &repository.BookingRepo{DB: db}
	emails := &repository.EmailRepo{DB: db}

	gateway := payment.NewGateway(cfg.FrontendURL)
	sender := &mailer.SMTPSender{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.EmailFrom,
	}
	mail := mailer.NewService(sender, emails)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	cache, limiter := router.Middlewares(rdb)

	router.RegisterCore(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret, limiter)
	router.RegisterEvents(e, handler.NewEventHandler(events), cfg.JWTSecret, cache)
	router.RegisterBookings(e, handler.NewBookingHandler(bookings, events, users, gateway, mail), cfg.JWTSecret, limiter)
	router.RegisterUsers(e, handler.NewAdminUserHandler(users), cfg.JWTSecret)
	router.RegisterEmails(e, handler.NewEmailHandler(emails), cfg.JWTSecret)

	// Consumes booking.confirmed events and appends them to the audit
	// log. Reconnects on its own if the broker drops.
	go queue.StartBookingConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
