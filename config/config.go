// Package config loads process-level settings from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the process configuration. Per-repository behavior
// (schedules, thresholds, templates) lives in the remote config document,
// not here.
type Config struct {
	Slack    SlackConfig    `mapstructure:"slack"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Log      LogConfig      `mapstructure:"log"`
}

// SlackConfig holds Slack API settings.
type SlackConfig struct {
	Token string `mapstructure:"token"`
}

// GitHubConfig holds GitHub API settings and the watched repositories.
type GitHubConfig struct {
	Token    string   `mapstructure:"token"`
	BotLogin string   `mapstructure:"bot_login"` // login used to spot our own PR comments
	Repos    []string `mapstructure:"repos"`     // "owner/name" entries
}

// DatabaseConfig holds the notification ledger location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds the admin HTTP server address.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// JobsConfig holds scheduler settings.
type JobsConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from an optional YAML file and CONCIERGE_*
// environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "./concierge.db")
	v.SetDefault("jobs.interval_minutes", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("github.bot_login", "nextech-concierge")

	// register the remaining keys so AutomaticEnv can bind them
	v.SetDefault("slack.token", "")
	v.SetDefault("github.token", "")
	v.SetDefault("github.repos", []string{})

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("CONCIERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.Slack.Token == "" {
		return fmt.Errorf("slack token is required")
	}
	if len(c.GitHub.Repos) == 0 {
		return fmt.Errorf("at least one github repo is required")
	}
	return nil
}

// ServerAddress returns the admin server listen address.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
