package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. External collaborators (database, mail
// transport, payment redirect target, broker) are configured here and
// nowhere else.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	JWTSecret   string // secret used to sign session tokens
	TokenTTLHrs int    // session token time-to-live in hours
	BcryptCost  int    // bcrypt cost for password hashing
	FrontendURL string // base URL used to build payment redirect targets
	SMTPHost    string // outbound mail host (empty disables sending)
	SMTPPort    string // outbound mail port
	SMTPUser    string // outbound mail username
	SMTPPass    string // outbound mail password
	EmailFrom   string // From address on outgoing mail
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. Mail settings are
// optional so the service can run without a configured transport; sends
// are then recorded as failed in the email history.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		JWTSecret:   must("JWT_SECRET"),
		TokenTTLHrs: mustInt("TOKEN_TTL_HOURS"),
		BcryptCost:  mustInt("BCRYPT_COST"),
		FrontendURL: getenv("FRONTEND_URL", "http://localhost:5173"),
		SMTPHost:    os.Getenv("EMAIL_HOST"),
		SMTPPort:    getenv("EMAIL_PORT", "587"),
		SMTPUser:    os.Getenv("EMAIL_USER"),
		SMTPPass:    os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:   getenv("EMAIL_FROM", "noreply@iipsyoga.com"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
