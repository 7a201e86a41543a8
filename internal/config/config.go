// Package config loads application configuration.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from the YAML
// config file, with environment variables taking precedence.
type Config struct {
	Organization   string                  `mapstructure:"organization"`
	Periods        map[string]PeriodConfig `mapstructure:"periods"`
	OutputDir      string                  `mapstructure:"output_dir"`
	ExcludedRepos  []string                `mapstructure:"excluded_repos"`
	HighlightRepos []string                `mapstructure:"highlight_repos"`
	API            APIConfig               `mapstructure:"api"`
	AI             AIConfig                `mapstructure:"ai"`
}

// PeriodConfig describes one reporting cadence.
type PeriodConfig struct {
	Days int `mapstructure:"days"`
}

// APIConfig contains GitHub API client settings.
type APIConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitDelay time.Duration `mapstructure:"rate_limit_delay"`
	MaxWorkers     int           `mapstructure:"max_workers"`
}

// AIConfig contains narrative summary generation settings.
type AIConfig struct {
	Model                string        `mapstructure:"model"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
	RepoSummaryTokens    int           `mapstructure:"repo_summary_tokens"`
	OverallSummaryTokens int           `mapstructure:"overall_summary_tokens"`
}

// Load reads the config file at path and applies defaults and validation.
// A local .env file, when present, seeds the process environment first so
// tokens can live outside the shell profile.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.request_timeout", 30*time.Second)
	v.SetDefault("api.rate_limit_delay", 100*time.Millisecond)
	v.SetDefault("api.max_workers", 3)

	v.SetDefault("ai.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.request_timeout", 60*time.Second)
	v.SetDefault("ai.repo_summary_tokens", 200)
	v.SetDefault("ai.overall_summary_tokens", 300)
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Organization == "" {
		return fmt.Errorf("missing required config key: organization")
	}
	if len(c.Periods) == 0 {
		return fmt.Errorf("missing required config key: periods")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("missing required config key: output_dir")
	}
	return nil
}

// PeriodDays returns the configured trailing-window length for a period,
// falling back to a week when the period has no day count.
func (c Config) PeriodDays(period string) int {
	if p, ok := c.Periods[period]; ok && p.Days > 0 {
		return p.Days
	}
	return 7
}

// IsExcluded reports whether a repository is excluded from reports.
func (c Config) IsExcluded(repo string) bool {
	for _, name := range c.ExcludedRepos {
		if name == repo {
			return true
		}
	}
	return false
}
