package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIKey                string        `mapstructure:"tmdb_api_key" json:"-"`
	BaseURL               string        `mapstructure:"tmdb_base_url"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	WaitForConnectivity   bool          `mapstructure:"wait_for_connectivity"`
	CachePolicy           string        `mapstructure:"cache_policy"`

	FeedsFile           string        `mapstructure:"feeds_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`
	HarvestConcurrency  int           `mapstructure:"harvest_concurrency"`
	EnrichHomepage      bool          `mapstructure:"enrich_homepage"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	MovieTTLSeconds        int64         `mapstructure:"movie_ttl_seconds"`
	ResponseTTLSeconds     int64         `mapstructure:"response_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	MovieTTL               time.Duration `mapstructure:"-"`
	ResponseTTL            time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "films-api")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("tmdb_api_key", "")
	v.SetDefault("tmdb_base_url", "https://api.themoviedb.org/3/")
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("wait_for_connectivity", true)
	v.SetDefault("cache_policy", "return_cache_else_load")
	v.SetDefault("feeds_file", "./configs/feeds.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("poll_interval", 3600) // seconds
	v.SetDefault("harvest_concurrency", 4)
	v.SetDefault("enrich_homepage", false)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/cache.db")
	v.SetDefault("movie_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("response_ttl_seconds", int64((6*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return fmt.Errorf("tmdb_api_key is required")
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.PollIntervalSeconds <= 0 {
		return fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.HarvestConcurrency <= 0 {
		return fmt.Errorf("invalid harvest_concurrency (must be positive)")
	}

	if cfg.MovieTTLSeconds <= 0 {
		return fmt.Errorf("invalid movie_ttl_seconds (must be positive seconds)")
	}
	if cfg.ResponseTTLSeconds <= 0 {
		return fmt.Errorf("invalid response_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.MovieTTL = time.Duration(cfg.MovieTTLSeconds) * time.Second
	cfg.ResponseTTL = time.Duration(cfg.ResponseTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	cfg.CachePolicy = strings.ToLower(strings.TrimSpace(cfg.CachePolicy))
	return nil
}

// StartupFields summarises the resolved catalog and harvest settings for the startup log.
// The API key is reported only as present or absent.
func (cfg *Config) StartupFields() map[string]any {
	return map[string]any{
		"app_name":            cfg.AppName,
		"env":                 cfg.Env,
		"base_url":            cfg.BaseURL,
		"api_key_set":         cfg.APIKey != "",
		"request_timeout":     cfg.RequestTimeout.String(),
		"cache_policy":        cfg.CachePolicy,
		"poll_interval":       cfg.PollInterval.String(),
		"harvest_concurrency": cfg.HarvestConcurrency,
		"enrich_homepage":     cfg.EnrichHomepage,
		"feeds_file":          cfg.FeedsFile,
		"publishers_file":     cfg.PublishersFile,
		"storage_type":        cfg.StorageType,
		"response_ttl":        cfg.ResponseTTL.String(),
	}
}
