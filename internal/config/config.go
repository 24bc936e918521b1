// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs access tokens. Required.
	JWTSecret string
	// AccessTokenTTL and RefreshTokenTTL bound the two halves of a session.
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// PlacesAPIKey authenticates calls to the places API. Required.
	PlacesAPIKey string
	// PlacesBaseURL overrides the places endpoint; empty means production.
	PlacesBaseURL string
	// PlacesQueryInterval is the minimum gap between two text searches.
	PlacesQueryInterval time.Duration
	// FallbackImageURL is shown when no place photo validates.
	FallbackImageURL string

	// RedisURL selects the Redis search-session store when set.
	// When empty, sessions live in process memory.
	RedisURL string
	// SearchSessionTTL is how long an idle search session is kept.
	SearchSessionTTL time.Duration

	// RateLimitRPS and RateLimitBurst bound per-client request rates on search routes.
	RateLimitRPS   float64
	RateLimitBurst int

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or any
// that are set but cannot be parsed.
func Load() (Config, error) {
	var p parser

	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CORSOrigins:         splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		AccessTokenTTL:      p.duration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:     p.duration("REFRESH_TOKEN_TTL", 720*time.Hour),
		PlacesBaseURL:       os.Getenv("PLACES_BASE_URL"),
		PlacesQueryInterval: p.duration("PLACES_QUERY_INTERVAL", 100*time.Millisecond),
		FallbackImageURL:    os.Getenv("FALLBACK_IMAGE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		SearchSessionTTL:    p.duration("SEARCH_SESSION_TTL", 30*time.Minute),
		RateLimitRPS:        p.float("RATE_LIMIT_RPS", 5),
		RateLimitBurst:      p.int("RATE_LIMIT_BURST", 10),
		MaxBodyBytes:        int64(p.int("MAX_BODY_BYTES", 1<<20)),
		MigrateOnStart:      p.bool("MIGRATE_ON_START", true),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	cfg.PlacesAPIKey = os.Getenv("PLACES_API_KEY")
	if cfg.PlacesAPIKey == "" {
		missing = append(missing, "PLACES_API_KEY")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(p.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(p.invalid, ", "))
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config.LoadDotEnv: %w", err)
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parser reads typed optional variables and remembers which ones failed to parse.
type parser struct {
	invalid []string
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return d
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return f
}

func (p *parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return b
}
