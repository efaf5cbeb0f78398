package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// DatabaseURL is optional; without it the translation cache is disabled
	// and every request goes straight to the provider chain.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"PRESSROOM_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"PRESSROOM_DB_MAX_CONNS" default:"8"`

	DeepTranslateAPIKey   string `envconfig:"DEEP_TRANSLATE_API_KEY" default:""`
	DeepTranslateEndpoint string `envconfig:"DEEP_TRANSLATE_ENDPOINT" default:""`
	MyMemoryEmail         string `envconfig:"MYMEMORY_EMAIL" default:""`
	MyMemoryEndpoint      string `envconfig:"MYMEMORY_ENDPOINT" default:""`

	MonitorUpstreamURL string `envconfig:"MONITOR_UPSTREAM_URL" default:""`
	MonitorAPIKey      string `envconfig:"MONITOR_API_KEY" default:""`
	AlertPollSeconds   int    `envconfig:"ALERT_POLL_SECONDS" default:"15"`
	AlertFetchLimit    int    `envconfig:"ALERT_FETCH_LIMIT" default:"50"`

	// AdminTokenHash is a bcrypt hash of the token that gates monitor
	// reconfiguration. Empty disables the POST /api/v1/alerts endpoint.
	AdminTokenHash string `envconfig:"ADMIN_TOKEN_HASH" default:""`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBMinConns < 0 {
		return fmt.Errorf("PRESSROOM_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("PRESSROOM_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("PRESSROOM_DB_MIN_CONNS (%d) cannot exceed PRESSROOM_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.AlertPollSeconds < 1 {
		return fmt.Errorf("ALERT_POLL_SECONDS must be >= 1")
	}
	if c.AlertFetchLimit < 1 {
		return fmt.Errorf("ALERT_FETCH_LIMIT must be >= 1")
	}
	if strings.TrimSpace(c.MonitorAPIKey) != "" && strings.TrimSpace(c.MonitorUpstreamURL) == "" {
		return fmt.Errorf("MONITOR_API_KEY is set but MONITOR_UPSTREAM_URL is empty")
	}
	return nil
}

// CacheEnabled reports whether a translation cache database was configured.
func (c *Config) CacheEnabled() bool {
	return c != nil && strings.TrimSpace(c.DatabaseURL) != ""
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
