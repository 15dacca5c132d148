package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pdbridge/pdbridge/pkg/models"
)

const DefaultConfigPath = "/etc/pdbridge/config.yaml"

type Config struct {
	PagerDuty PagerDutyConfig `yaml:"pagerduty"`
}

type PagerDutyConfig struct {
	Name            string `yaml:"name"`
	RoutingKey      string `yaml:"routing_key"`
	DefaultSource   string `yaml:"default_source"`
	DefaultSeverity string `yaml:"default_severity"`
}

// Load reads and parses the config file, expanding env vars
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables so the routing key can live in an
	// env file instead of the config itself.
	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns sane defaults
func DefaultConfig() *Config {
	return &Config{
		PagerDuty: PagerDutyConfig{
			Name:            "pagerduty",
			DefaultSource:   "home-assistant",
			DefaultSeverity: string(models.SeverityInfo),
		},
	}
}

// Validate checks the config for errors
func (c *Config) Validate() error {
	if c.PagerDuty.RoutingKey == "" {
		return fmt.Errorf("pagerduty routing_key is required")
	}

	if !models.Severity(c.PagerDuty.DefaultSeverity).Valid() {
		return fmt.Errorf("invalid default_severity: %s (must be critical, error, warning, or info)",
			c.PagerDuty.DefaultSeverity)
	}

	return nil
}
