package configs

import (
	"os"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Model    ModelConfig
	Capture  CaptureConfig
	Fallback FallbackConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	OpsPort        string
	Env            string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds hosted auth provider and token configuration
type AuthConfig struct {
	ProviderURL string
	ProviderKey string
	JWTSecret   string
	AdminEmails []string
}

// ModelConfig holds vision model API configuration
type ModelConfig struct {
	APIKey  string
	BaseURL string
	Name    string
}

// CaptureConfig holds chart screenshot service configuration
type CaptureConfig struct {
	URL string
}

// FallbackConfig holds local fallback storage configuration
type FallbackConfig struct {
	Path string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			OpsPort:        getEnv("OPS_PORT", "8081"),
			Env:            getEnv("GO_ENV", "development"),
			AllowedOrigins: splitEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			ProviderURL: getEnv("AUTH_PROVIDER_URL", ""),
			ProviderKey: getEnv("AUTH_PROVIDER_KEY", ""),
			JWTSecret:   getEnv("JWT_SECRET", ""),
			AdminEmails: splitEnv("ADMIN_EMAILS", "admin@ensotrade.com"),
		},
		Model: ModelConfig{
			APIKey:  getEnv("MODEL_API_KEY", ""),
			BaseURL: getEnv("MODEL_BASE_URL", "https://generativelanguage.googleapis.com"),
			Name:    getEnv("MODEL_NAME", "gemini-2.0-flash"),
		},
		Capture: CaptureConfig{
			URL: getEnv("CAPTURE_SERVICE_URL", ""),
		},
		Fallback: FallbackConfig{
			Path: getEnv("FALLBACK_STORE_PATH", "analyses.json"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitEnv gets a comma-separated environment variable as a trimmed slice
func splitEnv(key, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
