// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"admitdesk.org/internal/obs"
)

// Config carries everything main needs to wire the process.
type Config struct {
	Addr         string
	PGDSN        string
	TokenTTL     time.Duration
	RateLimitRPS float64
	RateBurst    int
	MaxBodyBytes int64
	SMSGateway   string
	SMSAPIKey    string
}

// Load reads configuration. Every knob has a working default except the
// auth secret, which internal/auth reads and enforces on its own.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		obs.Logger().Debug("no .env file found, using environment variables")
	}

	cfg := Config{
		Addr:         envOr("ADMITDESK_ADDR", ":8080"),
		PGDSN:        os.Getenv("ADMITDESK_PG_DSN"),
		TokenTTL:     24 * time.Hour,
		RateLimitRPS: 50,
		RateBurst:    100,
		MaxBodyBytes: 1 << 20,
		SMSGateway:   os.Getenv("ADMITDESK_SMS_GATEWAY_URL"),
		SMSAPIKey:    os.Getenv("ADMITDESK_SMS_API_KEY"),
	}

	if v := os.Getenv("ADMITDESK_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("ADMITDESK_RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("ADMITDESK_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateBurst = n
		}
	}
	if v := os.Getenv("ADMITDESK_MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
