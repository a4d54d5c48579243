// Package config provides YAML-based configuration loading for Cadence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Cadence configuration, loaded from cadence.yaml.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Sinks     SinksConfig     `yaml:"sinks"`
}

// DatabaseConfig selects the storage backend. SQLite is the default embedded
// store; MySQL serves shared deployments.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "mysql"
	Path   string `yaml:"path"`   // sqlite file path

	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Name string `yaml:"name"`
}

// SchedulerConfig controls the reminder scheduler loop.
type SchedulerConfig struct {
	TickIntervalSec int `yaml:"tick_interval_sec"`
	// DigestCron is an optional 5-field cron expression; when set, a daily
	// agenda digest is delivered to the sinks at each fire time.
	DigestCron string `yaml:"digest_cron"`
}

// TickInterval returns the scheduler tick interval as a duration.
func (s SchedulerConfig) TickInterval() time.Duration {
	return time.Duration(s.TickIntervalSec) * time.Second
}

// DashboardConfig holds the read-only HTTP API settings.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// SinksConfig configures where notifications are delivered.
type SinksConfig struct {
	// Command is a shell command template run per notification, e.g.
	// "notify-send 'Cadence' '{{.Title}}'".
	Command string        `yaml:"command"`
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack delivery settings. Empty BotToken disables the sink.
type SlackConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// DiscordConfig holds Discord delivery settings. Empty BotToken disables the sink.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists:
// embedded SQLite next to the working directory, one-minute ticks.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "cadence.db"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.Name == "" {
		c.Database.Name = "cadence"
	}
	if c.Scheduler.TickIntervalSec == 0 {
		c.Scheduler.TickIntervalSec = 60
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q must be sqlite or mysql", c.Database.Driver))
	}
	if c.Scheduler.TickIntervalSec < 0 {
		errs = append(errs, "scheduler.tick_interval_sec must not be negative")
	}
	if c.Sinks.Slack.BotToken != "" && c.Sinks.Slack.ChannelID == "" {
		errs = append(errs, "sinks.slack.channel_id is required when a bot token is set")
	}
	if c.Sinks.Discord.BotToken != "" && c.Sinks.Discord.ChannelID == "" {
		errs = append(errs, "sinks.discord.channel_id is required when a bot token is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
