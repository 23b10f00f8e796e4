package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read from the environment exactly once at startup and handed to
// the components that need it. Core logic never reads the environment.
type Config struct {
	AppEnv      string
	AppPort     string
	CORSOrigins []string

	YookassaShopID        string
	YookassaSecretKey     string
	YookassaReturnURL     string
	YookassaWebhookSecret string

	// AllowIndividualBooking opens 1:1 schedule events to the public booking
	// endpoint. When false (the default), individual events are routed to the
	// contact-the-administrator path instead of payment.
	AllowIndividualBooking bool

	// SweepInterval controls the periodic re-poll of payments stuck in a
	// non-terminal status. Zero disables the sweep.
	SweepInterval time.Duration
	SweepMinAge   time.Duration

	RedisURL string
	CacheTTL time.Duration

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailFrom   string
	AdminEmail string
}

func Load() *Config {
	cfg := &Config{
		AppEnv:      getenv("API_ENV", "development"),
		AppPort:     getenv("APP_PORT", "8080"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),

		YookassaShopID:        os.Getenv("YOOKASSA_SHOP_ID"),
		YookassaSecretKey:     os.Getenv("YOOKASSA_SECRET_KEY"),
		YookassaReturnURL:     getenv("YOOKASSA_RETURN_URL", "http://localhost:5173"),
		YookassaWebhookSecret: os.Getenv("YOOKASSA_WEBHOOK_SECRET"),

		AllowIndividualBooking: getbool("ALLOW_INDIVIDUAL_BOOKING", false),

		SweepInterval: getduration("PAYMENT_SWEEP_INTERVAL", 5*time.Minute),
		SweepMinAge:   getduration("PAYMENT_SWEEP_MIN_AGE", 10*time.Minute),

		RedisURL: os.Getenv("REDIS_URL"),
		CacheTTL: getduration("PUBLIC_CACHE_TTL", time.Minute),

		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   getint("SMTP_PORT", 587),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASSWORD"),
		MailFrom:   os.Getenv("MAIL_FROM"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
	}
	return cfg
}

func (c *Config) YookassaEnabled() bool {
	return c.YookassaShopID != "" && c.YookassaSecretKey != ""
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.AdminEmail != ""
}

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
