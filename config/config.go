package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a database was configured at all. Without one the
// app falls back to an in-memory cache and loses nothing but persistence.
func (c DatabaseConfig) Enabled() bool {
	return c.DBName != ""
}

type CMSConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AppConfig struct {
	Port           string
	Environment    string
	CMS            CMSConfig
	Database       DatabaseConfig
	ReconcileDelay time.Duration
}

func GetDatabaseConfig() DatabaseConfig {
	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func GetAppConfig() AppConfig {
	cmsURL := getEnv("CMS_URL", "http://localhost:1337")
	if os.Getenv("CMS_URL") == "" {
		fmt.Println("Warning: CMS_URL is not set, using " + cmsURL)
	}

	return AppConfig{
		Port:           getEnv("PORT", "8081"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		CMS:            CMSConfig{BaseURL: cmsURL, Timeout: durationEnv("CMS_TIMEOUT", 15*time.Second)},
		Database:       GetDatabaseConfig(),
		ReconcileDelay: durationEnv("RECONCILE_DELAY", time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
