package infra

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	PublicBaseURL    string
	StoragePath      string
	StorageBaseURL   string
	GeoIPDBPath      string
	DefaultLocale    string
	AllowedOrigins   []string
	ProviderAPIToken string
	ProviderBaseURL  string
	TrainerVersion   string
	WebhookURL       string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             port,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		StoragePath:      getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:   getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%s/static", port)),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "en"),
		AllowedOrigins:   splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		ProviderAPIToken: os.Getenv("PROVIDER_API_TOKEN"),
		ProviderBaseURL:  getEnv("PROVIDER_BASE_URL", "https://api.replicate.com/v1"),
		TrainerVersion:   os.Getenv("PROVIDER_TRAINER_VERSION"),
		WebhookURL:       os.Getenv("WEBHOOK_URL"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ProviderAPIToken == "" {
		return nil, fmt.Errorf("PROVIDER_API_TOKEN is required")
	}
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = fmt.Sprintf("http://localhost:%s/v1/webhooks/provider", port)
	}
	if _, err := url.Parse(cfg.WebhookURL); err != nil {
		return nil, fmt.Errorf("WEBHOOK_URL is invalid: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
