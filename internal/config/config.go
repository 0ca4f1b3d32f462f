package config

import (
	"fmt"
	"os"

	"invoicebridge/internal/logger"
)

type Config struct {
	// OpenAI Configuration
	OpenAIAPIKey string
	OpenAIModel  string

	// Ledger (Zoho Books) Configuration
	ZohoClientID     string
	ZohoClientSecret string
	ZohoRefreshToken string
	ZohoOrgID        string
	ZohoAPIBase      string
	ZohoTokenURL     string

	// Default account used to pay expenses when the form leaves it blank
	PaidThroughAccountName string

	// HTTP server Configuration
	Port      string
	UploadDir string
	StaticDir string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:            getEnv("OPENAI_MODEL", "gpt-4o"),
		ZohoClientID:           getEnv("ZOHO_CLIENT_ID", ""),
		ZohoClientSecret:       getEnv("ZOHO_CLIENT_SECRET", ""),
		ZohoRefreshToken:       getEnv("ZOHO_REFRESH_TOKEN", ""),
		ZohoOrgID:              getEnv("ZOHO_ORG_ID", ""),
		ZohoAPIBase:            getEnv("ZOHO_API_BASE", "https://www.zohoapis.in/books/v3"),
		ZohoTokenURL:           getEnv("ZOHO_TOKEN_URL", "https://accounts.zoho.in/oauth/v2/token"),
		PaidThroughAccountName: getEnv("PAID_THROUGH_ACCOUNT_NAME", ""),
		Port:                   getEnv("PORT", "8080"),
		UploadDir:              getEnv("UPLOAD_DIR", "uploads"),
		StaticDir:              getEnv("STATIC_DIR", "public"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:          getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:              getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.ZohoClientID == "" {
		return fmt.Errorf("ZOHO_CLIENT_ID is required")
	}
	if c.ZohoClientSecret == "" {
		return fmt.Errorf("ZOHO_CLIENT_SECRET is required")
	}
	if c.ZohoRefreshToken == "" {
		return fmt.Errorf("ZOHO_REFRESH_TOKEN is required")
	}
	if c.ZohoOrgID == "" {
		return fmt.Errorf("ZOHO_ORG_ID is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
