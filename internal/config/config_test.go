package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Plan.Symbol != "SPY" || cfg.Plan.Cadence != "weekly" || cfg.Plan.Amount != 25 {
		t.Errorf("plan defaults = %+v", cfg.Plan)
	}
	if cfg.Plan.StartDate == "" {
		t.Error("expected a default start date")
	}
	if cfg.Prices.Source != "yahoo" || cfg.Prices.LookbackYears != 5 {
		t.Errorf("prices defaults = %+v", cfg.Prices)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9090"
plan:
  symbol: QQQ
  cadence: monthly
  amount: 120.5
  start_date: "2022-06-01"
prices:
  source: stooq
  lookback_years: 10
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Plan.Symbol != "QQQ" || cfg.Plan.Cadence != "monthly" || cfg.Plan.Amount != 120.5 {
		t.Errorf("plan = %+v", cfg.Plan)
	}
	if cfg.Prices.Source != "stooq" || cfg.Prices.LookbackYears != 10 {
		t.Errorf("prices = %+v", cfg.Prices)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VICEVAULT_SYMBOL", "VTI")
	t.Setenv("VICEVAULT_AMOUNT", "42.50")
	t.Setenv("VICEVAULT_PRICE_SOURCE", "synthetic")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "123")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Plan.Symbol != "VTI" {
		t.Errorf("symbol = %q", cfg.Plan.Symbol)
	}
	if cfg.Plan.Amount != 42.50 {
		t.Errorf("amount = %v", cfg.Plan.Amount)
	}
	if cfg.Prices.Source != "synthetic" {
		t.Errorf("source = %q", cfg.Prices.Source)
	}
	if !cfg.TelegramEnabled() {
		t.Error("telegram should be enabled")
	}
}

func TestValidateRejects(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad cadence", func(c *Config) { c.Plan.Cadence = "hourly" }},
		{"negative amount", func(c *Config) { c.Plan.Amount = -3 }},
		{"bad start date", func(c *Config) { c.Plan.StartDate = "June 1st" }},
		{"unknown source", func(c *Config) { c.Prices.Source = "bloomberg" }},
		{"lookback too large", func(c *Config) { c.Prices.LookbackYears = 99 }},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "tok" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
