package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	// StaticDir is the directory holding the built marketing site.
	// Empty disables static serving (API-only mode behind a CDN).
	StaticDir string

	// TrustProxyHeaders makes rate limiting key on X-Forwarded-For /
	// X-Real-IP. Only enable behind a proxy that strips inbound copies
	// of those headers.
	TrustProxyHeaders bool

	Mail MailConfig
}

// MailConfig holds everything the relay needs to deliver a submission.
// When Host is empty, or AllowFallback is true, the relay provisions a
// disposable Ethereal test inbox instead of using a real SMTP server.
type MailConfig struct {
	Host          string
	Port          uint16
	Secure        bool   // implicit TLS (SMTPS) instead of STARTTLS
	Username      string // optional - some servers allow unauthenticated relay
	Password      string // optional
	From          string
	To            string
	AllowFallback bool
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:               getEnv("ENV", "dev"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Port:              getEnvInt("PORT", 8080),
		StaticDir:         getEnv("STATIC_DIR", ""),
		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
		Mail: MailConfig{
			Host:          getEnv("SMTP_HOST", ""),
			Port:          getEnvInt("SMTP_PORT", 587),
			Secure:        getEnvBool("SMTP_SECURE", false),
			Username:      getEnv("SMTP_USER", ""),
			Password:      getEnv("SMTP_PASS", ""),
			From:          getEnv("MAIL_FROM", "Clearledger Website <website@clearledger.co>"),
			To:            getEnv("MAIL_TO", "info@clearledger.co"),
			AllowFallback: getEnvBool("ALLOW_EMAIL_FALLBACK", false),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Env == "prod" && cfg.Mail.Host == "" && !cfg.Mail.AllowFallback {
		slog.Default().Warn("SMTP_HOST is not set; submissions will go to a disposable Ethereal inbox")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
