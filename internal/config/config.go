// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Graph    GraphConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the connection string of the business database.
// The scheme of URL selects the driver (sqlserver, postgres or sqlite).
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds the shared secret checked on every guarded route.
type AuthConfig struct {
	APIKey string
}

// GraphConfig holds the mail provider application registration.
type GraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Mailbox      string
	BaseURL      string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Graph: GraphConfig{
			TenantID:     getEnv("TENANT_ID", ""),
			ClientID:     getEnv("CLIENT_ID", ""),
			ClientSecret: getEnv("CLIENT_SECRET", ""),
			Mailbox:      getEnv("MAILBOX", ""),
			BaseURL:      strings.TrimRight(getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com"), "/"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
			File:   getEnv("LOG_FILE", ""),
		},
	}
}

// Validate reports settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.NotValidf("DATABASE_URL")
	}
	if c.Auth.APIKey == "" {
		return errors.NotValidf("API_KEY")
	}
	return nil
}

// MailConfigured reports whether the mail provider registration is complete.
func (g GraphConfig) MailConfigured() bool {
	return g.TenantID != "" && g.ClientID != "" && g.ClientSecret != "" && g.Mailbox != ""
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
