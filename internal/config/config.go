package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// reCAPTCHA
	RecaptchaSiteKey   string
	RecaptchaSecretKey string

	// Email (Resend)
	ResendAPIKey      string
	NotificationEmail string
	FromEmail         string
	FromName          string

	// Business information rendered into notifications
	BusinessName  string
	BusinessPhone string
	BusinessEmail string
	WebsiteURL    string
	ThankYouURL   string

	// Fallback delivery
	SendmailPath string
	FailedLogDir string

	// Outbound HTTP calls (reCAPTCHA, Resend)
	HTTPTimeout time.Duration

	// Form protection
	RateLimitPerHour   int
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RecaptchaSiteKey:   getEnv("RECAPTCHA_SITE_KEY", ""),
		RecaptchaSecretKey: getEnv("RECAPTCHA_SECRET_KEY", ""),

		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		FromEmail:         getEnv("FROM_EMAIL", "noreply@ilocksmithindiana.com"),
		FromName:          getEnv("FROM_NAME", "I Locksmith"),

		BusinessName:  getEnv("BUSINESS_NAME", "I Locksmith"),
		BusinessPhone: getEnv("BUSINESS_PHONE", "(574) 318-7797"),
		BusinessEmail: getEnv("BUSINESS_EMAIL", "ilocksmithoffice@gmail.com"),
		WebsiteURL:    getEnv("WEBSITE_URL", "https://ilocksmithindiana.com"),
		ThankYouURL:   getEnv("THANK_YOU_URL", "/thank-you.html"),

		SendmailPath: getEnv("SENDMAIL_PATH", "/usr/sbin/sendmail"),
		FailedLogDir: getEnv("FAILED_LOG_DIR", "logs"),

		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", 10*time.Second),

		RateLimitPerHour:   getEnvAsInt("RATE_LIMIT", 50),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// IsProduction reports whether the service runs with production safeguards.
// The reCAPTCHA bypass must never be reachable when this returns true.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
