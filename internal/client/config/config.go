package config

import (
	"time"

	"github.com/dmitrijs2005/medrecords/internal/common"
)

// Config holds runtime settings for the medrecords CLI.
type Config struct {
	APIBaseURL      string
	TokenDBPath     string
	RequestTimeout  time.Duration
	CoalesceRefresh bool
	LogLevel        string
	LogFormat       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api/"
	c.TokenDBPath = "medrecords.db"
	c.RequestTimeout = 0
	c.CoalesceRefresh = true
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	cfg.APIBaseURL = common.EnsureTrailingSlash(cfg.APIBaseURL)
	return cfg
}
