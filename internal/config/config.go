package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string
	AuthAPIURL string

	StoragePath string

	CartTimeout  time.Duration
	ListTimeout  time.Duration
	ProbeTimeout time.Duration

	CartCacheTTL    time.Duration
	CatalogCacheTTL time.Duration
	RefreshThrottle time.Duration

	LogLevel string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not found: %v, using system environment", err)
	}

	return Config{
		APIBaseURL: EnvDefault("RAFAL_API_URL", "https://apirafal.cyparta.com"),
		AuthAPIURL: EnvDefault("RAFAL_AUTH_URL", EnvDefault("RAFAL_API_URL", "https://apirafal.cyparta.com")),

		StoragePath: EnvDefault("RAFAL_STORAGE_PATH", "storefront.db"),

		CartTimeout:  EnvDurationDefault("RAFAL_CART_TIMEOUT", 15*time.Second),
		ListTimeout:  EnvDurationDefault("RAFAL_LIST_TIMEOUT", 20*time.Second),
		ProbeTimeout: EnvDurationDefault("RAFAL_PROBE_TIMEOUT", 10*time.Second),

		CartCacheTTL:    EnvDurationDefault("RAFAL_CART_CACHE_TTL", 30*time.Minute),
		CatalogCacheTTL: EnvDurationDefault("RAFAL_CATALOG_CACHE_TTL", 10*time.Minute),
		RefreshThrottle: EnvDurationDefault("RAFAL_REFRESH_THROTTLE", 2*time.Second),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}
}

func EnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
