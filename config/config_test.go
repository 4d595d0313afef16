package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bcdannyboy/protect/hedge"
	"github.com/bcdannyboy/protect/models"
)

// isolate points HOME at an empty directory and clears credential env vars.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, e := range []string{
		"TRADIER_KEY", "SLACK_APP_TOKEN", "SLACK_BOT_TOKEN",
		"PROTECT_TRADIER_TOKEN", "PROTECT_SLACK_APP_TOKEN", "PROTECT_SLACK_BOT_TOKEN",
		"PROTECT_HEDGE_SPOT", "PROTECT_LOGGING_LEVEL",
	} {
		t.Setenv(e, "")
		os.Unsetenv(e)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "protect.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := cfg.HedgeConfig(); got != hedge.DefaultConfig() {
		t.Errorf("HedgeConfig: got %+v, want defaults", got)
	}
	if got := cfg.Scenarios(); len(got) != len(hedge.DefaultScenarios) {
		t.Errorf("Scenarios: got %v", got)
	}
	if cfg.Tradier.BaseURL != "https://api.tradier.com/v1" {
		t.Errorf("Tradier.BaseURL: got %q", cfg.Tradier.BaseURL)
	}
	if cfg.Tradier.Timeout() != 15*time.Second {
		t.Errorf("Tradier.Timeout: got %v", cfg.Tradier.Timeout())
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}

	table, err := cfg.BuildVolTable()
	if err != nil {
		t.Fatalf("BuildVolTable() error: %v", err)
	}
	if len(table.Anchors()) != len(models.DefaultVolAnchors) {
		t.Errorf("expected default anchors, got %v", table.Anchors())
	}
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, `
hedge:
  spot: 500
  strike: 450
  premium: 6.5
  holding_days: 20
  seed: 7
  scenarios: [-0.1, -0.25]
vol_table:
  - decline: 0
    level: 12
  - decline: -0.2
    level: 30
tradier:
  token: file-token
logging:
  level: debug
  format: json
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}

	h := cfg.HedgeConfig()
	if h.Spot != 500 || h.Strike != 450 || h.Premium != 6.5 {
		t.Errorf("hedge prices: got %+v", h)
	}
	if h.HoldingDays != 20 || h.Seed != 7 {
		t.Errorf("hedge ints: holding %d seed %d", h.HoldingDays, h.Seed)
	}
	// Unset keys keep their defaults.
	if h.DaysToExpiry != 90 || h.Leverage != -3 {
		t.Errorf("defaults lost: %+v", h)
	}
	if err := h.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}

	scenarios := cfg.Scenarios()
	if len(scenarios) != 2 || scenarios[0] != -0.1 || scenarios[1] != -0.25 {
		t.Errorf("Scenarios: got %v", scenarios)
	}

	table, err := cfg.BuildVolTable()
	if err != nil {
		t.Fatalf("BuildVolTable() error: %v", err)
	}
	if table.Baseline() != 12 {
		t.Errorf("Baseline: got %v, want 12", table.Baseline())
	}
	if got := table.Level(-0.1); math.Abs(got-21) > 1e-9 {
		t.Errorf("Level(-0.1): got %v, want 21", got)
	}

	if cfg.Tradier.Token != "file-token" {
		t.Errorf("Tradier.Token: got %q", cfg.Tradier.Token)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PROTECT_HEDGE_SPOT", "512.5")
	t.Setenv("PROTECT_LOGGING_LEVEL", "warn")
	t.Setenv("TRADIER_KEY", "legacy-key")
	t.Setenv("SLACK_APP_TOKEN", "xapp-1")
	t.Setenv("PROTECT_SLACK_BOT_TOKEN", "xoxb-1")

	cfg, err := LoadFromFile(writeFile(t, "hedge:\n  spot: 400\n"))
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Hedge.Spot != 512.5 {
		t.Errorf("env should override file spot, got %v", cfg.Hedge.Spot)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level: got %q", cfg.Logging.Level)
	}
	if cfg.Tradier.Token != "legacy-key" {
		t.Errorf("Tradier.Token: got %q", cfg.Tradier.Token)
	}
	if cfg.Slack.AppToken != "xapp-1" || cfg.Slack.BotToken != "xoxb-1" {
		t.Errorf("Slack: got %+v", cfg.Slack)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	isolate(t)

	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	cfg, err := LoadFromFile(writeFile(t, "vol_table:\n  - decline: 0.1\n    level: 10\n"))
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if _, err := cfg.BuildVolTable(); !errors.Is(err, models.ErrInvalidVolTable) {
		t.Errorf("positive decline anchor: expected ErrInvalidVolTable, got %v", err)
	}
}
