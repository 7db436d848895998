// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pkgstrings "museforge/pkg/platform/strings"
)

// Config is the full runtime configuration.
type Config struct {
	Server   Server
	Admin    Admin
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Pricing  Pricing
	Payments Payments
}

// Admin guards the operator endpoints. An empty TokenHash disables them.
type Admin struct {
	TokenHash string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	JWTSigningKey  string
	JWTIssuer      string
	JWTAudience    string
	RequestTimeout time.Duration
}

// Postgres configures the relational store. An empty DSN selects the
// in-memory stores.
type Postgres struct {
	DSN string
}

// Redis configures the cache and fast-path stores. An empty URL disables
// Redis-backed stores.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the audit event sink. Empty brokers disable it.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Pricing configures the upstream cost quote API.
type Pricing struct {
	BaseURL string
	Timeout time.Duration
}

// Payments configures the purchase link provider.
type Payments struct {
	BaseURL     string
	CheckoutURL string
	Timeout     time.Duration
}

// FromEnv reads configuration from the environment, applying development
// defaults where a variable is unset.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:           getEnv("MUSEFORGE_ADDR", ":8080"),
			JWTSigningKey:  getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:      getEnv("JWT_ISSUER", "museforge"),
			JWTAudience:    getEnv("JWT_AUDIENCE", "museforge-dashboard"),
			RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
		Admin: Admin{
			TokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		},
		Postgres: Postgres{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_AUDIT_TOPIC", "museforge.audit.events"),
		},
		Pricing: Pricing{
			BaseURL: getEnv("PRICING_API_URL", "http://localhost:9081"),
			Timeout: getDuration("PRICING_TIMEOUT", 5*time.Second),
		},
		Payments: Payments{
			BaseURL:     getEnv("PAYMENTS_API_URL", "http://localhost:9082"),
			CheckoutURL: getEnv("PAYMENTS_CHECKOUT_URL", "https://checkout.museforge.dev"),
			Timeout:     getDuration("PAYMENTS_TIMEOUT", 10*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return pkgstrings.DedupeAndTrim(strings.Split(s, ","))
}
