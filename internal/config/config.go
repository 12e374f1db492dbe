package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultAPIOrigin         = "http://localhost:8081"
	defaultSessionDSN        = "rentcar_sessions.db"
	defaultCookieName        = "rentcar_sid"
	defaultRequestTimeout    = "15s"
	defaultFleetPollInterval = "60s"
	defaultWorkspaceIdleTTL  = "2h"
	defaultSessionRetention  = "720h"
	defaultSweepSchedule     = "0 */5 * * * *"
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
)

// Config is the runtime configuration of the web application.
type Config struct {
	AppEnv             string
	HTTPAddr           string
	APIOrigin          string
	SessionDSN         string
	CookieName         string
	CookieSecure       bool
	CookieSameSite     string
	RequestTimeout     time.Duration
	FleetPollInterval  time.Duration
	WorkspaceIdleTTL   time.Duration
	SessionRetention   time.Duration
	SweepSchedule      string
	LocationsFile      string
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:         appEnv(),
		HTTPAddr:       strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr)),
		APIOrigin:      strings.TrimRight(strings.TrimSpace(getEnv("API_ORIGIN", defaultAPIOrigin)), "/"),
		SessionDSN:     strings.TrimSpace(getEnv("SESSION_DSN", defaultSessionDSN)),
		CookieName:     strings.TrimSpace(getEnv("COOKIE_NAME", defaultCookieName)),
		CookieSecure:   parseBoolEnv("COOKIE_SECURE", defaultCookieSecure),
		CookieSameSite: strings.TrimSpace(getEnv("COOKIE_SAMESITE", defaultCookieSameSite)),
		LocationsFile:  strings.TrimSpace(getEnv("LOCATIONS_FILE", "")),
		SweepSchedule:  strings.TrimSpace(getEnv("WORKSPACE_SWEEP_SCHEDULE", defaultSweepSchedule)),
		LogLevel:       strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))),
		LogFormat:      strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat))),
	}

	var err error
	if cfg.RequestTimeout, err = parseDurationEnv("REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.FleetPollInterval, err = parseDurationEnv("FLEET_POLL_INTERVAL", defaultFleetPollInterval); err != nil {
		return nil, err
	}
	if cfg.WorkspaceIdleTTL, err = parseDurationEnv("WORKSPACE_IDLE_TTL", defaultWorkspaceIdleTTL); err != nil {
		return nil, err
	}
	if cfg.SessionRetention, err = parseDurationEnv("SESSION_RETENTION", defaultSessionRetention); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	if extra := getEnv("CORS_ALLOWED_ORIGINS", ""); extra != "" {
		cfg.CORSAllowedOrigins = cfg.CORSAllowedOrigins[:0]
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIOrigin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_ORIGIN must be an absolute URL, got %q", c.APIOrigin)
	}
	if c.SessionDSN == "" {
		return fmt.Errorf("SESSION_DSN must not be empty")
	}
	if c.CookieName == "" {
		return fmt.Errorf("COOKIE_NAME must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	if c.FleetPollInterval <= 0 {
		return fmt.Errorf("FLEET_POLL_INTERVAL must be > 0")
	}
	if c.WorkspaceIdleTTL <= 0 {
		return fmt.Errorf("WORKSPACE_IDLE_TTL must be > 0")
	}
	if c.SessionRetention < c.WorkspaceIdleTTL {
		return fmt.Errorf("SESSION_RETENTION must be >= WORKSPACE_IDLE_TTL")
	}
	if c.SweepSchedule == "" {
		return fmt.Errorf("WORKSPACE_SWEEP_SCHEDULE must not be empty")
	}
	if err := validateSameSite(c.CookieSameSite, c.CookieSecure); err != nil {
		return err
	}
	if isProdLike(c.AppEnv) && !c.CookieSecure {
		return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
	}
	return nil
}

func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}
