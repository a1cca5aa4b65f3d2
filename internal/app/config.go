package app

import (
	"errors"
	"fmt"
	"slices"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TaskPath string // task .hcl file or directory

	LogFormat   string
	LogLevel    string
	MetricsPort int // 0 disables the /metrics and /health server
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.TaskPath == "" {
		return nil, errors.New("TaskPath is a required configuration field and cannot be empty")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log level %q, expected one of %v", cfg.LogLevel, logLevels)
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log format %q, expected one of %v", cfg.LogFormat, logFormats)
	}
	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return nil, fmt.Errorf("invalid metrics port %d", cfg.MetricsPort)
	}
	return &cfg, nil
}
