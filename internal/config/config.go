// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string   `yaml:"token"`
	Prefix   string   `yaml:"prefix"` // message command prefix, default "!"
	AdminIDs []string `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	Provider        string        `yaml:"provider"` // gemini | openai
	GeminiKey       string        `yaml:"gemini_key"`
	GeminiURL       string        `yaml:"gemini_url"`
	OpenAIKey       string        `yaml:"openai_key"`
	PrimaryModel    string        `yaml:"primary_model"`
	FallbackModel   string        `yaml:"fallback_model"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	ConcurrentLimit int           `yaml:"concurrent_limit"` // max concurrent AI calls
	RequestTimeout  time.Duration `yaml:"request_timeout"` // per completion attempt
	SessionMaxIdle  time.Duration `yaml:"session_max_idle"` // idle sessions swept after this
	RatePerMinute   int           `yaml:"rate_per_minute"`  // AI commands per user per minute
}

type TMDBConfig struct {
	APIKey string `yaml:"api_key"`
}

type StocksConfig struct {
	AlphaVantageKey string        `yaml:"alpha_vantage_key"`
	AlertInterval   time.Duration `yaml:"alert_interval"`
	QuoteTTL        time.Duration `yaml:"quote_ttl"`
}

type WeatherConfig struct {
	OpenWeatherMapKey string `yaml:"openweathermap_key"`
}

type DashboardConfig struct {
	Port          int           `yaml:"port"`
	JWTSecret     string        `yaml:"jwt_secret"`
	CookieDomain  string        `yaml:"cookie_domain"`
	SecureCookie  bool          `yaml:"secure_cookie"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	ClientID      string        `yaml:"discord_client_id"`
	ClientSecret  string        `yaml:"discord_client_secret"`
	RedirectURL   string        `yaml:"discord_redirect_url"`
}

type SchedulerConfig struct {
	EpisodeInterval time.Duration `yaml:"episode_interval"`
	MovieInterval   time.Duration `yaml:"movie_interval"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	AI        AIConfig        `yaml:"ai"`
	TMDB      TMDBConfig      `yaml:"tmdb"`
	Stocks    StocksConfig    `yaml:"stocks"`
	Weather   WeatherConfig   `yaml:"weather"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Bot.Prefix == "" {
		cfg.Bot.Prefix = "!"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.PrimaryModel == "" {
		cfg.AI.PrimaryModel = "gemini-2.5-pro"
	}
	if cfg.AI.FallbackModel == "" {
		cfg.AI.FallbackModel = "gemini-2.5-flash"
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 2048
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.RequestTimeout <= 0 {
		cfg.AI.RequestTimeout = 5 * time.Minute
	}
	if cfg.AI.SessionMaxIdle <= 0 {
		cfg.AI.SessionMaxIdle = 6 * time.Hour
	}
	if cfg.AI.RatePerMinute <= 0 {
		cfg.AI.RatePerMinute = 6
	}
	if cfg.Stocks.AlertInterval <= 0 {
		cfg.Stocks.AlertInterval = 15 * time.Minute
	}
	if cfg.Stocks.QuoteTTL <= 0 {
		cfg.Stocks.QuoteTTL = 5 * time.Minute
	}
	if cfg.Scheduler.EpisodeInterval <= 0 {
		cfg.Scheduler.EpisodeInterval = 30 * time.Minute
	}
	if cfg.Scheduler.MovieInterval <= 0 {
		cfg.Scheduler.MovieInterval = 24 * time.Hour
	}
	if cfg.Scheduler.SweepInterval <= 0 {
		cfg.Scheduler.SweepInterval = 30 * time.Minute
	}
	if cfg.Dashboard.Port == 0 {
		cfg.Dashboard.Port = 8080
	}
	if cfg.Dashboard.SessionTTL <= 0 {
		cfg.Dashboard.SessionTTL = 12 * time.Hour
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.AI.GeminiKey == "" && cfg.AI.OpenAIKey == "" {
		return nil, errors.New("ai.gemini_key or ai.openai_key is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
