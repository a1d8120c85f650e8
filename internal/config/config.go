package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port           string
	Env            string
	RequestTimeout time.Duration
	AllowedOrigin  string

	// YouTube Data API
	YouTubeAPIKey          string
	YouTubeRequestsPerSec  float64
	DetailFetchConcurrency int

	// Google Sheets export
	SpreadsheetID        string
	GoogleServiceAccount string

	// Webhook
	WebhookSecret string

	// Redis (optional)
	RedisURL string

	// Rate limiting
	RateLimitPerMinute int

	// Ranking policy
	ScoreViewWeight float64
	ScoreLikeWeight float64
}

// ConfigurationError reports required settings that are absent at startup.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("required environment variables not set: %s", strings.Join(e.Missing, ", "))
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                   getEnvOrDefault("PORT", "8080"),
		Env:                    getEnvOrDefault("ENV", "development"),
		RequestTimeout:         getEnvAsDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		AllowedOrigin:          getEnvOrDefault("CORS_ALLOWED_ORIGIN", "*"),
		YouTubeAPIKey:          os.Getenv("YOUTUBE_API_KEY"),
		YouTubeRequestsPerSec:  getEnvAsFloatOrDefault("YOUTUBE_REQUESTS_PER_SECOND", 0),
		DetailFetchConcurrency: getEnvAsIntOrDefault("DETAIL_FETCH_CONCURRENCY", 1),
		SpreadsheetID:          os.Getenv("SHEETS_PARENT_SPREADSHEET_ID"),
		GoogleServiceAccount:   os.Getenv("GOOGLE_SA_JSON"),
		WebhookSecret:          os.Getenv("WEBHOOK_SECRET"),
		RedisURL:               os.Getenv("REDIS_URL"),
		RateLimitPerMinute:     getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 60),
		ScoreViewWeight:        getEnvAsFloatOrDefault("SCORE_VIEW_WEIGHT", 0.6),
		ScoreLikeWeight:        getEnvAsFloatOrDefault("SCORE_LIKE_WEIGHT", 400.0),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.YouTubeAPIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	if c.DetailFetchConcurrency < 1 {
		c.DetailFetchConcurrency = 1
	}
	return nil
}

// ExportEnabled reports whether both Sheets settings are present.
func (c *Config) ExportEnabled() bool {
	return c.SpreadsheetID != "" && c.GoogleServiceAccount != ""
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
