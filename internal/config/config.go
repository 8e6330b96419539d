package config

import (
	"os"
	"strings"
	"time"
)

// Config holds application configuration. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Board (work-tracking) API
	BoardAPIToken   string
	BoardAPIURL     string
	BoardAPIVersion string
	BoardID         string
	BoardTimeout    time.Duration
	BoardTimezone   string

	// Email notifications
	EmailProvider   string // "resend", "sendgrid", "ses" or "" (disabled)
	ResendAPIKey    string
	SendGridAPIKey  string
	EmailFrom       string
	EmailFromName   string
	EmailRecipients []string
	EmailTimeout    time.Duration

	// AWS (only used when EmailProvider is "ses")
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Geolocation lookup
	GeoIPBaseURL string
	GeoIPTimeout time.Duration

	// HTTP
	CORSAllowedOrigins []string
	SessionTTL         time.Duration
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BoardAPIToken:   getEnv("BOARD_API_TOKEN", ""),
		BoardAPIURL:     getEnv("BOARD_API_URL", "https://api.monday.com/v2"),
		BoardAPIVersion: getEnv("BOARD_API_VERSION", "2024-01"),
		BoardID:         getEnv("BOARD_ID", ""),
		BoardTimeout:    getEnvAsDuration("BOARD_TIMEOUT", 20*time.Second),
		BoardTimezone:   getEnv("BOARD_TIMEZONE", "Asia/Jerusalem"),

		EmailProvider:   strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "resend"))),
		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:       getEnv("EMAIL_FROM", "leads@lironregev.com"),
		EmailFromName:   getEnv("EMAIL_FROM_NAME", "New Leads"),
		EmailRecipients: getEnvAsList("EMAIL_RECIPIENTS"),
		EmailTimeout:    getEnvAsDuration("EMAIL_TIMEOUT", 10*time.Second),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		GeoIPBaseURL: getEnv("GEOIP_BASE_URL", "http://ip-api.com"),
		GeoIPTimeout: getEnvAsDuration("GEOIP_TIMEOUT", 4*time.Second),

		CORSAllowedOrigins: getEnvAsListDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 30*time.Minute),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping
// empty entries.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsListDefault(key string, defaultValue []string) []string {
	if v := getEnvAsList(key); v != nil {
		return v
	}
	return defaultValue
}
