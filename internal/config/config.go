package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultScoringURL is the hosted scoring service used when SCORING_API_URL is unset.
const DefaultScoringURL = "https://football-backend-latest-2.onrender.com"

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Scoring service
	ScoringURL     string
	ScoringTimeout time.Duration

	// Sessions. An empty RedisURL keeps sessions in process memory.
	RedisURL   string
	SessionTTL time.Duration

	// Reconcile worker pool
	WorkerCount int
	QueueSize   int

	// History read-after-write settling
	SettleDelay       time.Duration
	SettleMaxDelay    time.Duration
	SettleMaxAttempts int

	// Report
	ReportHistoryLimit int

	// Rate limiting on prediction routes, ulule/limiter format ("30-M")
	PredictRateLimit string
}

// Load loads configuration from environment variables.
// It returns an error if a value is present but unusable.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		ScoringURL:     strings.TrimRight(getEnv("SCORING_API_URL", DefaultScoringURL), "/"),
		ScoringTimeout: getEnvDuration("SCORING_TIMEOUT", 15*time.Second),

		RedisURL:   getEnv("REDIS_URL", ""),
		SessionTTL: getEnvDuration("SESSION_TTL", 2*time.Hour),

		WorkerCount: getEnvInt("WORKER_COUNT", 4),
		QueueSize:   getEnvInt("QUEUE_SIZE", 256),

		SettleDelay:       getEnvDuration("SETTLE_DELAY", 500*time.Millisecond),
		SettleMaxDelay:    getEnvDuration("SETTLE_MAX_DELAY", 4*time.Second),
		SettleMaxAttempts: getEnvInt("SETTLE_MAX_ATTEMPTS", 4),

		ReportHistoryLimit: getEnvInt("REPORT_HISTORY_LIMIT", 50),

		PredictRateLimit: getEnv("PREDICT_RATE_LIMIT", "30-M"),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if err := validateScoringURL(cfg.ScoringURL); err != nil {
		return nil, err
	}
	if cfg.SettleMaxAttempts < 1 {
		return nil, fmt.Errorf("SETTLE_MAX_ATTEMPTS must be at least 1, got %d", cfg.SettleMaxAttempts)
	}

	return cfg, nil
}

// IsProduction reports whether ENV selects production behaviour (JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func validateScoringURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid SCORING_API_URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid SCORING_API_URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid SCORING_API_URL %q: missing host", raw)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
