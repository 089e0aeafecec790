package config

import (
	"fmt"
	"os"
	"strconv"

	"PriceForecaster/internal/forecast"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Forecast struct {
		Symbol          string `yaml:"symbol"`
		HistoryWindow   int    `yaml:"history_window"`
		ForecastHorizon int    `yaml:"forecast_horizon"`
		Seed            int64  `yaml:"seed"`
	} `yaml:"forecast"`
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo, finance, csv or mock
		CSVPath  string `yaml:"csv_path"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		ForecastCron string `yaml:"forecast_cron"`
	} `yaml:"schedule"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"cache"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Forecast.Seed = forecast.DefaultSeed

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
	if v := os.Getenv("FORECAST_SYMBOL"); v != "" {
		cfg.Forecast.Symbol = v
	}
	if err := envInt("FORECAST_HISTORY_WINDOW", &cfg.Forecast.HistoryWindow); err != nil {
		return nil, err
	}
	if err := envInt("FORECAST_HORIZON", &cfg.Forecast.ForecastHorizon); err != nil {
		return nil, err
	}
	if v := os.Getenv("FORECAST_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("FORECAST_SEED: %w", err)
		}
		cfg.Forecast.Seed = seed
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("PRICE_CSV_PATH"); v != "" {
		cfg.DataSource.CSVPath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	if v := os.Getenv("CRON_FORECAST"); v != "" {
		cfg.Schedule.ForecastCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if err := envInt("PORT", &cfg.Server.Port); err != nil {
		return nil, err
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Forecast.Symbol == "" {
		cfg.Forecast.Symbol = "MSFT"
	}
	if cfg.Forecast.HistoryWindow == 0 {
		cfg.Forecast.HistoryWindow = forecast.DefaultHistoryWindow
	}
	if cfg.Forecast.ForecastHorizon == 0 {
		cfg.Forecast.ForecastHorizon = forecast.DefaultHorizon
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Schedule.ForecastCron == "" {
		cfg.Schedule.ForecastCron = "0 30 22 * * 1-5"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	return cfg, nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// Request returns the configured forecast request.
func (c *Config) Request() forecast.Request {
	return forecast.Request{
		Symbol:        c.Forecast.Symbol,
		HistoryWindow: c.Forecast.HistoryWindow,
		Horizon:       c.Forecast.ForecastHorizon,
		Seed:          c.Forecast.Seed,
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if err := c.Request().Validate(); err != nil {
		return fmt.Errorf("forecast: %w", err)
	}
	switch c.DataSource.Provider {
	case "yahoo", "finance", "mock":
	case "csv":
		if c.DataSource.CSVPath == "" {
			return fmt.Errorf("data_source.csv_path is required for the csv provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, finance, csv, mock", c.DataSource.Provider)
	}
	return nil
}

// ValidateTelegram checks the settings the bot command needs.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
