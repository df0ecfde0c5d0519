package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/camuig/trade-quest/internal/projection"
)

type Config struct {
	AI         AIConfig         `yaml:"ai"`
	Journal    JournalConfig    `yaml:"journal"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	Projection ProjectionConfig `yaml:"projection"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Review     ReviewConfig     `yaml:"review"`
	Rates      RatesConfig      `yaml:"rates"`
	Web        WebConfig        `yaml:"web"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AIConfig struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	FallbackMessage string `yaml:"fallback_message"`
}

type JournalConfig struct {
	Timezone            string  `yaml:"timezone"`
	MinRankTrades       int     `yaml:"min_rank_trades"`
	BreakevenPolicy     string  `yaml:"breakeven_policy"` // ignore, reset
	Currency            string  `yaml:"currency"`
	DefaultExchangeRate float64 `yaml:"default_exchange_rate"`
}

type LedgerConfig struct {
	AnchorDate     string        `yaml:"anchor_date"` // YYYY-MM-DD
	Days           int           `yaml:"days"`
	InitialBalance float64       `yaml:"initial_balance"`
	Phases         []PhaseConfig `yaml:"phases"`
}

type PhaseConfig struct {
	FromWeek   int     `yaml:"from_week"`
	ToWeek     int     `yaml:"to_week"`
	WeeklyGain float64 `yaml:"weekly_gain"`
}

type ProjectionConfig struct {
	Steps int `yaml:"steps"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type ReviewConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"`
	Weekday  string `yaml:"weekday"`
	Hour     int    `yaml:"hour"`
}

type RatesConfig struct {
	Enabled        bool   `yaml:"enabled"`
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Settings where zero is meaningful are seeded before decoding so an explicit
// 0 in the file survives setDefaults.
const (
	DefaultMinRankTrades = 10
	DefaultReviewHour    = 18
)

const DefaultRatesURL = "https://iss.moex.com/iss/statistics/engines/currency/markets/selt/rates.json?iss.meta=off"

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load reads the YAML file at path. A missing file is not an error: the
// journal runs on defaults. Variables from a .env file next to the binary
// are loaded first and override secrets from the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Journal: JournalConfig{MinRankTrades: DefaultMinRankTrades},
		Review:  ReviewConfig{Hour: DefaultReviewHour},
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	applyEnv(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("QUEST_AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("QUEST_TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.AI.FallbackMessage == "" {
		cfg.AI.FallbackMessage = "The coach is unavailable right now. Try again later."
	}
	if cfg.Journal.Timezone == "" {
		cfg.Journal.Timezone = "Local"
	}
	if cfg.Journal.BreakevenPolicy == "" {
		cfg.Journal.BreakevenPolicy = "ignore"
	}
	if cfg.Journal.Currency == "" {
		cfg.Journal.Currency = "RUB"
	}
	if cfg.Journal.DefaultExchangeRate == 0 {
		cfg.Journal.DefaultExchangeRate = 90
	}
	if cfg.Ledger.AnchorDate == "" {
		cfg.Ledger.AnchorDate = "2025-01-06"
	}
	if cfg.Ledger.Days == 0 {
		cfg.Ledger.Days = 365
	}
	if cfg.Ledger.InitialBalance == 0 {
		cfg.Ledger.InitialBalance = 1000
	}
	if len(cfg.Ledger.Phases) == 0 {
		cfg.Ledger.Phases = []PhaseConfig{{FromWeek: 1, ToWeek: 53, WeeklyGain: 100}}
	}
	if cfg.Projection.Steps == 0 {
		cfg.Projection.Steps = 17
	}
	if cfg.Review.Interval == "" {
		cfg.Review.Interval = "1h"
	}
	if cfg.Review.Weekday == "" {
		cfg.Review.Weekday = "sunday"
	}
	if cfg.Rates.URL == "" {
		cfg.Rates.URL = DefaultRatesURL
	}
	if cfg.Rates.TimeoutSeconds == 0 {
		cfg.Rates.TimeoutSeconds = 10
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/trade-quest.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 20
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 5
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = 30
	}
}

func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Journal.Timezone); err != nil {
		return fmt.Errorf("invalid journal.timezone %q: %w", c.Journal.Timezone, err)
	}
	switch c.Journal.BreakevenPolicy {
	case "ignore", "reset":
	default:
		return fmt.Errorf("journal.breakeven_policy must be ignore or reset, got %q", c.Journal.BreakevenPolicy)
	}
	if _, err := time.Parse(time.DateOnly, c.Ledger.AnchorDate); err != nil {
		return fmt.Errorf("invalid ledger.anchor_date %q: %w", c.Ledger.AnchorDate, err)
	}
	if c.Journal.MinRankTrades < 0 {
		return fmt.Errorf("journal.min_rank_trades must not be negative, got %d", c.Journal.MinRankTrades)
	}
	if c.Ledger.Days < 1 || c.Ledger.Days > projection.MaxLedgerDays {
		return fmt.Errorf("ledger.days must be within 1-%d, got %d", projection.MaxLedgerDays, c.Ledger.Days)
	}
	if c.Projection.Steps < 1 || c.Projection.Steps > projection.MaxSteps {
		return fmt.Errorf("projection.steps must be within 1-%d, got %d", projection.MaxSteps, c.Projection.Steps)
	}
	for i, p := range c.Ledger.Phases {
		if p.FromWeek < 1 || p.ToWeek < p.FromWeek {
			return fmt.Errorf("ledger.phases[%d]: invalid week range %d-%d", i, p.FromWeek, p.ToWeek)
		}
	}
	if _, err := time.ParseDuration(c.Review.Interval); err != nil {
		return fmt.Errorf("invalid review.interval %q: %w", c.Review.Interval, err)
	}
	if _, ok := weekdays[c.Review.Weekday]; !ok {
		return fmt.Errorf("invalid review.weekday %q", c.Review.Weekday)
	}
	if c.Review.Hour < 0 || c.Review.Hour > 23 {
		return fmt.Errorf("review.hour must be within 0-23, got %d", c.Review.Hour)
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Journal.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) AnchorDate() time.Time {
	d, _ := time.ParseInLocation(time.DateOnly, c.Ledger.AnchorDate, c.Location())
	return d
}

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

func (c *Config) RatesTimeout() time.Duration {
	return time.Duration(c.Rates.TimeoutSeconds) * time.Second
}

func (c *Config) ReviewInterval() time.Duration {
	d, _ := time.ParseDuration(c.Review.Interval)
	return d
}

func (c *Config) ReviewWeekday() time.Weekday {
	return weekdays[c.Review.Weekday]
}

func (c *Config) AIEnabled() bool {
	return c.AI.APIKey != ""
}
