// Package config provides application configuration loaded from environment
// variables. All configuration is externalized via environment variables for
// 12-factor app compliance.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration.
// Load it once at startup using Load().
type Config struct {
	// MySQLDSN is the MySQL connection string.
	MySQLDSN string

	// ServerPort is the port the API server listens on.
	ServerPort string

	// GinMode is the gin framework mode ("debug" or "release").
	GinMode string

	// CalendarURL is the endpoint of the external trading-calendar source.
	CalendarURL string

	// FetchTimeout bounds interactive test fetches against upstream feeds.
	FetchTimeout time.Duration

	// BulkFetchTimeout bounds scheduled full-market fetches.
	BulkFetchTimeout time.Duration

	// FetchRatePerSecond limits outbound requests per upstream source.
	FetchRatePerSecond float64
}

// Load loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
func Load() *Config {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &Config{
		MySQLDSN:           getDatabaseDSN(),
		ServerPort:         getEnv("SERVER_PORT", "5000"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		CalendarURL:        getEnv("CALENDAR_URL", "http://localhost:8510/trade_days"),
		FetchTimeout:       time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		BulkFetchTimeout:   time.Duration(getEnvInt("BULK_FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		FetchRatePerSecond: float64(getEnvInt("FETCH_RATE_PER_SECOND", 5)),
	}
}

// getDatabaseDSN constructs the MySQL DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("MYSQL_USER", "root")
	dbPassword := getEnv("MYSQL_PASSWORD", "root")
	dbHost := getEnv("MYSQL_HOST", "127.0.0.1")
	dbPort := getEnv("MYSQL_PORT", "3306")
	dbName := getEnv("MYSQL_DB", "jingjiabushou")

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

// NewLogger builds the shared application logger.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
