// Command createadmin seeds or promotes an administrator account. The
// API never grants the admin role on registration, so the first admin
// has to be created out of band with this tool.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/iipsyoga/club-booking/internal/config"
	"github.com/iipsyoga/club-booking/internal/database"
	"github.com/iipsyoga/club-booking/internal/model"
	"github.com/iipsyoga/club-booking/internal/repository"
)

func main() {
	name := flag.String("name", "Admin User", "display name for the account")
	email := flag.String("email", "", "email address (required)")
	phone := flag.String("phone", "0000000000", "phone number")
	studentID := flag.String("student-id", "ADMIN001", "student id")
	password := flag.String("password", "", "password (required when creating)")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	users := repository.NewUserRepo(db)

	// An existing account is promoted in place so the tool can be run
	// repeatedly without caring whether the user registered first.
	existing, err := users.GetByEmail(ctx, *email)
	switch {
	case err == nil:
		if existing.Role == model.RoleAdmin {
			log.Printf("%s is already an admin (id=%d)", existing.Email, existing.ID)
			return
		}
		if err := users.UpdateRole(ctx, existing.ID, model.RoleAdmin); err != nil {
			log.Fatalf("promote: %v", err)
		}
		log.Printf("promoted %s to admin (id=%d)", existing.Email, existing.ID)
	case errors.Is(err, sql.ErrNoRows):
		if *password == "" {
			log.Fatal("-password is required when the account does not exist yet")
		}
		if len(*password) < 6 {
			log.Fatal("password must be at least 6 characters")
		}
		id, err := users.Create(ctx, *name, *email, *phone, *studentID, *password, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("create: %v", err)
		}
		if err := users.UpdateRole(ctx, id, model.RoleAdmin); err != nil {
			log.Fatalf("promote: %v", err)
		}
		log.Printf("created admin %s (id=%d)", *email, id)
	default:
		log.Fatalf("lookup: %v", err)
	}
}
