package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default endpoints for a backend running on the same machine.
const (
	DefaultAPIBaseURL = "http://localhost:5000/api"
	DefaultChannelURL = "ws://localhost:5000/ws"
)

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// APIBaseURL is the root of the backend REST API.
	APIBaseURL string `mapstructure:"api_base_url" yaml:"api_base_url"`

	// ChannelURL is the websocket endpoint for the push channel.
	ChannelURL string `mapstructure:"channel_url" yaml:"channel_url"`

	// FeedCapacity is how many live registrations the dashboard feed shows.
	FeedCapacity int `mapstructure:"feed_capacity" yaml:"feed_capacity"`

	// BellCapacity is how many notifications the bell dropdown holds.
	// It is also the capacity of the shared notification store.
	BellCapacity int `mapstructure:"bell_capacity" yaml:"bell_capacity"`

	// ReportRefreshSec is how often (in seconds) to refetch the daily report.
	ReportRefreshSec int `mapstructure:"report_refresh_sec" yaml:"report_refresh_sec"`

	// HistoryPath is the sqlite file holding the local notification history.
	HistoryPath string `mapstructure:"history_path" yaml:"history_path"`

	// LogPath is the file structured logs are written to. The terminal
	// belongs to the UI, so nothing is logged to stdout.
	LogPath string `mapstructure:"log_path" yaml:"log_path"`

	// LogLevel is the minimum level written to the log file.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// configDir returns the application's directory under ~/.config.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "cashier-console")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/cashier-console/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		APIBaseURL:       DefaultAPIBaseURL,
		ChannelURL:       DefaultChannelURL,
		FeedCapacity:     10,
		BellCapacity:     20,
		ReportRefreshSec: 300,
		HistoryPath:      filepath.Join(configDir(), "history.db"),
		LogPath:          filepath.Join(configDir(), "cashier-console.log"),
		LogLevel:         "info",
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("api_base_url", defaults.APIBaseURL)
	v.SetDefault("channel_url", defaults.ChannelURL)
	v.SetDefault("feed_capacity", defaults.FeedCapacity)
	v.SetDefault("bell_capacity", defaults.BellCapacity)
	v.SetDefault("report_refresh_sec", defaults.ReportRefreshSec)
	v.SetDefault("history_path", defaults.HistoryPath)
	v.SetDefault("log_path", defaults.LogPath)
	v.SetDefault("log_level", defaults.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.FeedCapacity <= 0 {
		cfg.FeedCapacity = defaults.FeedCapacity
	}
	if cfg.BellCapacity <= 0 {
		cfg.BellCapacity = defaults.BellCapacity
	}
	if cfg.BellCapacity < cfg.FeedCapacity {
		// The feed renders a prefix of the shared store, so the store
		// capacity can never be the smaller of the two.
		cfg.BellCapacity = cfg.FeedCapacity
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api_base_url", cfg.APIBaseURL)
	v.Set("channel_url", cfg.ChannelURL)
	v.Set("feed_capacity", cfg.FeedCapacity)
	v.Set("bell_capacity", cfg.BellCapacity)
	v.Set("report_refresh_sec", cfg.ReportRefreshSec)
	v.Set("history_path", cfg.HistoryPath)
	v.Set("log_path", cfg.LogPath)
	v.Set("log_level", cfg.LogLevel)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
