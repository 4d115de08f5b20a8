package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/specialistvlad/paragrid/internal/event"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPaths []string // model files or directories of them

	LogFormat string
	LogLevel  string

	// Queries are dotted paths printed after the update.
	Queries []string
	// PrintOrder prints every namespace's update order after the update.
	PrintOrder bool

	// Serve keeps the app running with an HTTP server on HealthcheckPort.
	// Port 0 picks a free port.
	Serve           bool
	HealthcheckPort int

	// ViewURL, when set, streams model events to a socket.io view.
	ViewURL       string
	ViewNamespace string
	ViewEvents    []string
	ViewInsecure  bool

	// CacheSize bounds the parsed-expression cache.
	CacheSize int
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// NewConfig validates cfg and fills in defaults. Every problem is reported
// in one error.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error

	if len(cfg.ModelPaths) == 0 {
		errs = append(errs, errors.New("ModelPaths is a required configuration field and cannot be empty"))
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !oneOf(cfg.LogLevel, logLevels) {
		errs = append(errs, fmt.Errorf("invalid log level %q, expected one of %s", cfg.LogLevel, strings.Join(logLevels, ", ")))
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !oneOf(cfg.LogFormat, logFormats) {
		errs = append(errs, fmt.Errorf("invalid log format %q, expected one of %s", cfg.LogFormat, strings.Join(logFormats, ", ")))
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort))
	}
	if cfg.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("invalid cache size %d", cfg.CacheSize))
	}
	if cfg.ViewURL != "" {
		u, err := url.Parse(cfg.ViewURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid view URL %q", cfg.ViewURL))
		}
	}
	if _, err := event.ParseSet(cfg.ViewEvents); err != nil {
		errs = append(errs, fmt.Errorf("invalid view events: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
