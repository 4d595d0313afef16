// Package config loads application settings from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bcdannyboy/protect/hedge"
	"github.com/bcdannyboy/protect/models"
)

const envPrefix = "PROTECT"

// Config represents the complete application configuration.
type Config struct {
	Hedge    HedgeSection       `mapstructure:"hedge"     yaml:"hedge"`
	VolTable []models.VolAnchor `mapstructure:"vol_table" yaml:"vol_table"`
	Tradier  TradierConfig      `mapstructure:"tradier"   yaml:"tradier"`
	Slack    SlackConfig        `mapstructure:"slack"     yaml:"slack"`
	Logging  LoggingConfig      `mapstructure:"logging"   yaml:"logging"`
}

// HedgeSection holds the comparison parameters plus the default scenario list.
type HedgeSection struct {
	hedge.Config `mapstructure:",squash" yaml:",inline"`
	Scenarios    []float64 `mapstructure:"scenarios" yaml:"scenarios"`
}

// TradierConfig holds market data API settings.
type TradierConfig struct {
	Token      string `mapstructure:"token"       yaml:"token"`
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

func (t TradierConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSec) * time.Second
}

// SlackConfig holds socket-mode bot credentials.
type SlackConfig struct {
	AppToken string `mapstructure:"app_token" yaml:"app_token"`
	BotToken string `mapstructure:"bot_token" yaml:"bot_token"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/protect.yaml
//  2. ~/.protect/protect.yaml
//
// Environment variables override file values as PROTECT_<SECTION>_<KEY>,
// e.g. PROTECT_HEDGE_SPOT or PROTECT_TRADIER_TOKEN.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("protect")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".protect"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults mirrors hedge.DefaultConfig so a missing file still yields a
// runnable comparison.
func setDefaults(v *viper.Viper) {
	d := hedge.DefaultConfig()
	v.SetDefault("hedge.spot", d.Spot)
	v.SetDefault("hedge.strike", d.Strike)
	v.SetDefault("hedge.premium", d.Premium)
	v.SetDefault("hedge.contracts", d.Contracts)
	v.SetDefault("hedge.allocation", d.Allocation)
	v.SetDefault("hedge.baseline_iv", d.BaselineIV)
	v.SetDefault("hedge.holding_days", d.HoldingDays)
	v.SetDefault("hedge.days_to_expiry", d.DaysToExpiry)
	v.SetDefault("hedge.daily_volatility", d.DailyVolatility)
	v.SetDefault("hedge.risk_free_rate", d.RiskFreeRate)
	v.SetDefault("hedge.dividend_yield", d.DividendYield)
	v.SetDefault("hedge.leverage", d.Leverage)
	v.SetDefault("hedge.expense_ratio", d.ExpenseRatio)
	v.SetDefault("hedge.seed", d.Seed)
	v.SetDefault("hedge.parallelism", d.Parallelism)
	v.SetDefault("hedge.breakeven_lower", d.BreakevenLower)
	v.SetDefault("hedge.breakeven_upper", d.BreakevenUpper)
	v.SetDefault("hedge.scenarios", hedge.DefaultScenarios)

	// Empty credentials still need registered keys for env lookups to apply.
	v.SetDefault("tradier.token", "")
	v.SetDefault("tradier.base_url", "https://api.tradier.com/v1")
	v.SetDefault("tradier.timeout_sec", 15)

	v.SetDefault("slack.app_token", "")
	v.SetDefault("slack.bot_token", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv reads credentials that are usually kept in a .env file.
// The un-prefixed names are the ones older deployments already export.
func overrideFromEnv(cfg *Config) {
	if cfg.Tradier.Token == "" {
		cfg.Tradier.Token = os.Getenv("TRADIER_KEY")
	}
	if cfg.Slack.AppToken == "" {
		cfg.Slack.AppToken = os.Getenv("SLACK_APP_TOKEN")
	}
	if cfg.Slack.BotToken == "" {
		cfg.Slack.BotToken = os.Getenv("SLACK_BOT_TOKEN")
	}
}

// HedgeConfig returns the comparison parameters.
func (c *Config) HedgeConfig() hedge.Config {
	return c.Hedge.Config
}

// Scenarios returns the configured declines, or hedge.DefaultScenarios.
func (c *Config) Scenarios() []float64 {
	if len(c.Hedge.Scenarios) == 0 {
		return append([]float64(nil), hedge.DefaultScenarios...)
	}
	return append([]float64(nil), c.Hedge.Scenarios...)
}

// BuildVolTable builds the IV regression table, using the default anchors
// when none are configured.
func (c *Config) BuildVolTable() (*models.VolTable, error) {
	if len(c.VolTable) == 0 {
		return models.DefaultVolTable(), nil
	}
	return models.NewVolTable(c.VolTable)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
