package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Persistent store
	StorePath string

	// Sessions
	SessionTTL time.Duration

	// Mock data provider
	ProviderDelay time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		StorePath:     getEnv("STORE_PATH", "data/cloudcost.db"),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		ProviderDelay: time.Duration(getEnvInt("PROVIDER_DELAY_MS", 0)) * time.Millisecond,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
