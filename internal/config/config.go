// Package config provides configuration management for the application.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingVapiConfig is returned when any of the call API secrets is unset.
var ErrMissingVapiConfig = errors.New("missing vapi configuration")

// DefaultVapiBaseURL is the production call API.
const DefaultVapiBaseURL = "https://api.vapi.ai"

// Config holds all configuration values for the application.
type Config struct {
	// Vapi
	VapiAPIKey        string
	VapiAssistantID   string
	VapiPhoneNumberID string
	VapiBaseURL       string
	VapiTimeout       time.Duration

	// AWS
	AWSRegion string

	// Lead alerts (SES)
	SESSenderEmail string
	LeadAlertEmail string

	// Application
	Stage    string
	Version  string
	Port     string
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// Vapi
		VapiAPIKey:        getEnv("VAPI_API_KEY", ""),
		VapiAssistantID:   getEnv("VAPI_ASSISTANT_ID", ""),
		VapiPhoneNumberID: getEnv("VAPI_PHONE_NUMBER_ID", ""),
		VapiBaseURL:       getEnv("VAPI_BASE_URL", DefaultVapiBaseURL),
		VapiTimeout:       time.Duration(getEnvInt("VAPI_TIMEOUT_SECONDS", 30)) * time.Second,

		// AWS
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),

		// Lead alerts
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),
		LeadAlertEmail: getEnv("LEAD_ALERT_EMAIL", ""),

		// Application
		Stage:    getEnv("STAGE", "dev"),
		Version:  getEnv("SERVICE_VERSION", "1.0.0"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// ValidateVapi checks that the three call API secrets are present.
func (c *Config) ValidateVapi() error {
	if c.VapiAPIKey == "" || c.VapiAssistantID == "" || c.VapiPhoneNumberID == "" {
		return ErrMissingVapiConfig
	}
	return nil
}

// LeadAlertsEnabled reports whether lead alert emails should be sent.
func (c *Config) LeadAlertsEnabled() bool {
	return c.SESSenderEmail != "" && c.LeadAlertEmail != ""
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultValue
}
