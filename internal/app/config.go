package app

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything an App instance needs to run. Environment
// variables, when set, take precedence over the flag-supplied values.
type Config struct {
	ConfigPath  string `env:"MODEVO_CONFIG"`
	ArchivePath string `env:"MODEVO_ARCHIVE"` // sqlite file; empty keeps stats in memory

	LogFormat string `env:"MODEVO_LOG_FORMAT"`
	LogLevel  string `env:"MODEVO_LOG_LEVEL"`

	Ticks uint64 `env:"MODEVO_TICKS"` // zero defers to the config file
	Seed  int64  `env:"MODEVO_SEED"`  // zero defers to the config file, then the clock
}

// NewConfig applies environment overrides and validates the result.
func NewConfig(cfg Config) (*Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}
	if cfg.ConfigPath == "" {
		return nil, errors.New("a run configuration path is required")
	}
	return &cfg, nil
}
