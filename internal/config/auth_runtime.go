package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultDevAPIAddr     = ":8081"
	defaultDevAPIDSN      = "rentcar_devapi.db"
	defaultJWTAccessTTL   = "24h"
	defaultVerifyCode     = "123456"
	defaultCookieSecure   = "false"
	defaultCookieSameSite = "Lax"
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultAdminEmail     = "admin@rentcar.local"
	defaultAdminPassword  = "admin123"
)

// DevAPIConfig configures the local stand-in for the REST backend.
type DevAPIConfig struct {
	AppEnv        string
	Addr          string
	DSN           string
	JWTSecret     string
	JWTAccessTTL  time.Duration
	VerifyCode    string
	Seed          bool
	AdminEmail    string
	AdminPassword string
	LogLevel      string
	LogFormat     string
}

func LoadDevAPIConfig() (*DevAPIConfig, error) {
	cfg := &DevAPIConfig{
		AppEnv:     appEnv(),
		Addr:       strings.TrimSpace(getEnv("DEVAPI_ADDR", defaultDevAPIAddr)),
		DSN:        strings.TrimSpace(getEnv("DEVAPI_DSN", defaultDevAPIDSN)),
		JWTSecret:  strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		VerifyCode: strings.TrimSpace(getEnv("DEVAPI_VERIFY_CODE", defaultVerifyCode)),
		Seed:       parseBoolEnv("DEVAPI_SEED", "true"),

		AdminEmail:    strings.TrimSpace(getEnv("DEVAPI_ADMIN_EMAIL", defaultAdminEmail)),
		AdminPassword: getEnv("DEVAPI_ADMIN_PASSWORD", defaultAdminPassword),
		LogLevel:      strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))),
		LogFormat:     strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat))),
	}

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	if cfg.JWTAccessTTL <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("DEVAPI_DSN must not be empty")
	}
	if cfg.VerifyCode == "" {
		return nil, fmt.Errorf("DEVAPI_VERIFY_CODE must not be empty")
	}
	if cfg.Seed && len(cfg.AdminPassword) < 6 {
		return nil, fmt.Errorf("DEVAPI_ADMIN_PASSWORD must be at least 6 characters")
	}
	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return nil, fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return cfg, nil
}

func validateSameSite(v string, secure bool) error {
	if v == "" {
		return fmt.Errorf("COOKIE_SAMESITE must not be empty")
	}
	sameSite := strings.ToLower(strings.TrimSpace(v))
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !secure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}
	return nil
}

func appEnv() string {
	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = strings.TrimSpace(os.Getenv("ENV"))
	}
	if env == "" {
		env = "dev"
	}
	return strings.ToLower(env)
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
