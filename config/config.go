package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        string
	DataBackend string // "memory" or "mysql"
	DatabaseURL string

	JWTSecret string

	// StockPolicy: "clamp" keeps the historical clamp-at-zero behavior,
	// "reject" fails over-decrements and rolls back the operation.
	StockPolicy string

	LowStockThreshold int
}

const (
	defaultPort              = "8080"
	defaultDataBackend       = "memory"
	defaultStockPolicy       = "clamp"
	defaultLowStockThreshold = 3
)

// Load reads configuration from the environment, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", defaultPort),
		DataBackend:       getEnv("DATA_BACKEND", defaultDataBackend),
		DatabaseURL:       os.Getenv("DB_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		StockPolicy:       getEnv("STOCK_POLICY", defaultStockPolicy),
		LowStockThreshold: getInt("LOW_STOCK_THRESHOLD", defaultLowStockThreshold),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.DataBackend {
	case "memory":
	case "mysql":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required for the mysql backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown DATA_BACKEND %q", cfg.DataBackend)
	}

	switch cfg.StockPolicy {
	case "clamp", "reject":
	default:
		return Config{}, fmt.Errorf("unknown STOCK_POLICY %q", cfg.StockPolicy)
	}

	return cfg, nil
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
