package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string

	// MissionDate (YYYYMMDD) supplies the year and month that bulletin
	// day-of-month groups attach to. Zero defers to the current date.
	MissionDate int

	// MaxLevels caps the number of buffered levels per dropsonde release.
	MaxLevels int
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
		MaxLevels: 200,
	}

	if s := os.Getenv("MISSION_DATE"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || len(s) != 8 {
			return nil, fmt.Errorf("invalid MISSION_DATE %q: want YYYYMMDD", s)
		}
		month, day := n/100%100, n%100
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return nil, fmt.Errorf("invalid MISSION_DATE %q: want YYYYMMDD", s)
		}
		cfg.MissionDate = n
	}

	if s := os.Getenv("MAX_LEVELS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_LEVELS %q", s)
		}
		cfg.MaxLevels = n
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
