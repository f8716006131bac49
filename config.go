package main

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all environment variables for the master-data-service.
type Config struct {
	Port        string
	Environment string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisURL string

	AWSRegion    string
	AWSEndpoint  string
	AWSAccessKey string
	AWSSecretKey string

	ArchiveBucket string

	MasterUsername string
	MasterPassword string

	MaintenanceMode bool
}

// LoadConfig loads environment variables into Config struct and validates them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8095"),
		Environment: getEnv("APP_ENV", "production"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:  os.Getenv("AWS_ENDPOINT"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),

		ArchiveBucket: getEnv("ARCHIVE_BUCKET", "master-upload-files"),

		MasterUsername: os.Getenv("MASTER_USERNAME"),
		MasterPassword: os.Getenv("MASTER_PASSWORD"),

		MaintenanceMode: parseBool(os.Getenv("MAINTENANCE_MODE")),
	}

	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return nil, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.MasterUsername == "" {
		return nil, fmt.Errorf("MASTER_USERNAME is required")
	}
	if cfg.MasterPassword == "" {
		return nil, fmt.Errorf("MASTER_PASSWORD is required")
	}

	return cfg, nil
}

// PostgresDSN renders the GORM Postgres connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
