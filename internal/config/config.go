package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds environment-driven configuration for the storefront console.
type Config struct {
	Addr          string
	PublicURL     string
	APIBaseURL    string
	APITimeout    time.Duration
	StorageDriver string
	StoragePath   string
	DatabaseURL   string
	Profile       string
	MerchantName  string
	AllowOrigins  string
	LogLevel      string
	Environment   string
}

// Load reads configuration from a .env file (when present) and environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:          getenv("STOREFRONT_ADDR", ":3000"),
		PublicURL:     strings.TrimRight(getenv("STOREFRONT_PUBLIC_URL", "http://localhost:3000"), "/"),
		APIBaseURL:    strings.TrimRight(getenv("STOREFRONT_API_BASE_URL", "https://backend-jolkhabar.onrender.com/api/v1"), "/"),
		StorageDriver: strings.ToLower(getenv("STOREFRONT_STORAGE", StorageFile)),
		StoragePath:   getenv("STOREFRONT_STORAGE_PATH", ".storefront/session.env"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Profile:       getenv("STOREFRONT_PROFILE", "default"),
		MerchantName:  getenv("PAYMENT_MERCHANT_NAME", "Jolkhabar"),
		AllowOrigins:  getenv("CORS_ALLOW_ORIGINS", "*"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Environment:   getenv("ENVIRONMENT", "development"),
	}

	timeout, err := time.ParseDuration(getenv("STOREFRONT_API_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid STOREFRONT_API_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, errors.New("STOREFRONT_API_TIMEOUT must be positive")
	}
	cfg.APITimeout = timeout

	switch cfg.StorageDriver {
	case StorageFile, StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for postgres storage")
		}
	default:
		return Config{}, fmt.Errorf("unknown STOREFRONT_STORAGE %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
