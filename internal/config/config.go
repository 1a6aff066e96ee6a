package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Plan struct {
		Symbol    string  `yaml:"symbol"`
		Cadence   string  `yaml:"cadence"`
		Amount    float64 `yaml:"amount"`
		StartDate string  `yaml:"start_date"`
	} `yaml:"plan"`
	Prices struct {
		Source        string `yaml:"source"` // yahoo, stooq, synthetic, mock
		LookbackYears int    `yaml:"lookback_years"`
	} `yaml:"prices"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		ReportCron  string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Store struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"store"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Categories struct {
		File string `yaml:"file"` // optional taxonomy override
	} `yaml:"categories"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("VICEVAULT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("VICEVAULT_SYMBOL"); v != "" {
		cfg.Plan.Symbol = v
	}
	if v := os.Getenv("VICEVAULT_AMOUNT"); v != "" {
		var amount float64
		if _, err := fmt.Sscanf(v, "%f", &amount); err == nil {
			cfg.Plan.Amount = amount
		}
	}
	if v := os.Getenv("VICEVAULT_PRICE_SOURCE"); v != "" {
		cfg.Prices.Source = v
	}
	if v := os.Getenv("VICEVAULT_STATE_FILE"); v != "" {
		cfg.Store.StateFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("CRON_REPORT"); v != "" {
		cfg.Schedule.ReportCron = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Plan.Symbol == "" {
		cfg.Plan.Symbol = "SPY"
	}
	if cfg.Plan.Cadence == "" {
		cfg.Plan.Cadence = "weekly"
	}
	if cfg.Plan.Amount == 0 {
		cfg.Plan.Amount = 25
	}
	if cfg.Plan.StartDate == "" {
		cfg.Plan.StartDate = time.Now().UTC().AddDate(-1, 0, 0).Format(model.DateOnly)
	}
	if cfg.Prices.Source == "" {
		cfg.Prices.Source = "yahoo"
	}
	if cfg.Prices.LookbackYears == 0 {
		cfg.Prices.LookbackYears = 5
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 0 18 * * 0"
	}
	if cfg.Store.StateFile == "" {
		cfg.Store.StateFile = "data/vicevault_state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/vicevault.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	switch c.Prices.Source {
	case "yahoo", "stooq", "synthetic", "mock":
	default:
		return fmt.Errorf("prices.source must be yahoo, stooq, synthetic or mock, got %q", c.Prices.Source)
	}
	if c.Prices.LookbackYears < 1 || c.Prices.LookbackYears > 30 {
		return fmt.Errorf("prices.lookback_years must be between 1 and 30, got %d", c.Prices.LookbackYears)
	}
	if c.Store.StateFile == "" {
		return fmt.Errorf("store.state_file is required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Settings builds the default plan settings seeded into a fresh store.
func (c *Config) Settings() model.Settings {
	return model.Settings{
		Symbol:            c.Plan.Symbol,
		Cadence:           model.Cadence(c.Plan.Cadence),
		AmountPerPurchase: c.Plan.Amount,
		StartDate:         c.Plan.StartDate,
	}
}

// TelegramEnabled reports whether outbound notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
