package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// Remote data collaborator (PostgREST-style store + password auth).
	// An empty RemoteStoreURL switches the server to demo mode: the
	// in-memory store is used and seeded with sample data.
	RemoteStoreURL string
	RemoteStoreKey string
	RemoteTimeout  time.Duration

	// Geocoding collaborator.
	GeocoderURL     string
	GeocoderKey     string
	GeocoderTimeout time.Duration

	// Address resolution memo.
	GeocodeCacheCap int

	// Circuit breaker in front of the remote store.
	BreakerFailureThreshold int
	BreakerSuccessThreshold int
	BreakerProbeCooldown    time.Duration

	// HS256 secret used to validate collaborator-issued access tokens.
	JWTSigningKey string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                    envOr("HELPY_ADDR", ":8080"),
		RemoteStoreURL:          os.Getenv("REMOTE_STORE_URL"),
		RemoteStoreKey:          os.Getenv("REMOTE_STORE_KEY"),
		RemoteTimeout:           envDuration("REMOTE_TIMEOUT", 5*time.Second),
		GeocoderURL:             os.Getenv("GEOCODER_URL"),
		GeocoderKey:             os.Getenv("GEOCODER_KEY"),
		GeocoderTimeout:         envDuration("GEOCODER_TIMEOUT", 5*time.Second),
		GeocodeCacheCap:         envInt("GEOCODE_CACHE_CAP", 500),
		BreakerFailureThreshold: envInt("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerSuccessThreshold: envInt("BREAKER_SUCCESS_THRESHOLD", 3),
		BreakerProbeCooldown:    envDuration("BREAKER_PROBE_COOLDOWN", 30*time.Second),
		JWTSigningKey:           envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
	}
	return cfg
}

// DemoMode reports whether the server runs against the in-memory store.
func (s Server) DemoMode() bool {
	return s.RemoteStoreURL == ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
