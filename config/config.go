package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// Market data providers. Two interchangeable providers are supported;
	// the secondary is tried when the primary fails.
	PrimaryProviderURL      string
	PrimaryProviderAPIKey   string
	SecondaryProviderURL    string
	SecondaryProviderAPIKey string

	// UseMockData forces synthetic data and skips the network entirely.
	// Preferred for offline testing.
	UseMockData bool

	RefreshIntervalSeconds int
	CacheTTLSeconds        int
	SeriesPoints           int
	PredictionsEnabled     bool
}

var AppConfig *Config

// LoadConfig loads environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:                    getEnv("PORT", "8080"),
		Environment:             getEnv("ENVIRONMENT", "development"),
		PrimaryProviderURL:      getEnv("PRIMARY_PROVIDER_URL", "https://www.alphavantage.co"),
		PrimaryProviderAPIKey:   getEnv("PRIMARY_PROVIDER_API_KEY", ""),
		SecondaryProviderURL:    getEnv("SECONDARY_PROVIDER_URL", "https://finnhub.io/api/v1"),
		SecondaryProviderAPIKey: getEnv("SECONDARY_PROVIDER_API_KEY", ""),
		UseMockData:             getEnvBool("USE_MOCK_DATA", true),
		RefreshIntervalSeconds:  getEnvInt("REFRESH_INTERVAL_SECONDS", 5),
		CacheTTLSeconds:         getEnvInt("CACHE_TTL_SECONDS", 60),
		SeriesPoints:            getEnvInt("SERIES_POINTS", 30),
		PredictionsEnabled:      getEnvBool("PREDICTIONS_ENABLED", true),
	}

	AppConfig = config
	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
