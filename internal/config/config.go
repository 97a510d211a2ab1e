package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable. Token lifetimes follow the
// split the API relies on: access tokens live minutes, refresh tokens
// live days.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	JWTIssuer      string // iss claim stamped into access tokens
	JWTAudience    string // aud claim stamped into access tokens
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	SMTPHost       string // SMTP server host for outbound mail
	SMTPPort       int    // SMTP server port
	SMTPUser       string // SMTP auth username
	SMTPPass       string // SMTP auth password
	SMTPSender     string // From address on outbound mail
	SMTPSenderName string // display name on outbound mail
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// SMTP settings are optional; when the host is empty the mail
// collaborator is disabled and forgot-password reports an error.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		JWTIssuer:      getenv("JWT_ISSUER", "electrostore"),
		JWTAudience:    getenv("JWT_AUDIENCE", "electrostore-clients"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       envInt("SMTP_PORT", 587),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		SMTPSender:     os.Getenv("SMTP_SENDER"),
		SMTPSenderName: getenv("SMTP_SENDER_NAME", "Electro Store"),
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

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
