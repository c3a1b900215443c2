package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// EngineConfig holds the tuning knobs for the proximity engine.
type EngineConfig struct {
	// SampleIntervalMS is how often (in milliseconds) the device
	// position is sampled.
	SampleIntervalMS int `mapstructure:"sample_interval_ms" yaml:"sample_interval_ms"`

	// FetchTimeoutSec caps a single position fetch or store read.
	FetchTimeoutSec int `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`

	// DefaultThresholdKm is the notification distance used for users
	// with no configured threshold.
	DefaultThresholdKm float64 `mapstructure:"default_threshold_km" yaml:"default_threshold_km"`
}

// NotifyConfig holds notification presentation settings.
type NotifyConfig struct {
	// Title is the push notification title.
	Title string `mapstructure:"title" yaml:"title"`

	// DelaySec is the presentation trigger delay in seconds.
	DelaySec int `mapstructure:"delay_sec" yaml:"delay_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DatabasePath string       `mapstructure:"database_path" yaml:"database_path"`
	Engine       EngineConfig `mapstructure:"engine" yaml:"engine"`
	Notify       NotifyConfig `mapstructure:"notify" yaml:"notify"`
}

// SampleInterval returns the sample interval as a duration.
func (c EngineConfig) SampleInterval() time.Duration {
	return time.Duration(c.SampleIntervalMS) * time.Millisecond
}

// FetchTimeout returns the fetch timeout as a duration.
func (c EngineConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// Delay returns the presentation delay as a duration.
func (c NotifyConfig) Delay() time.Duration {
	return time.Duration(c.DelaySec) * time.Second
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/geo-reminder/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "geo-reminder", "config.yaml")
}

// defaultAppConfig returns the configuration used when no file exists.
func defaultAppConfig() *AppConfig {
	home, _ := os.UserHomeDir()
	return &AppConfig{
		DatabasePath: filepath.Join(home, ".local", "share", "geo-reminder", "reminders.db"),
		Engine: EngineConfig{
			SampleIntervalMS:   1000,
			FetchTimeoutSec:    10,
			DefaultThresholdKm: DefaultThresholdKm,
		},
		Notify: NotifyConfig{
			Title:    "KAZI IPO! 🔔",
			DelaySec: 1,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns the default
// configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("engine.sample_interval_ms", 1000)
	v.SetDefault("engine.fetch_timeout_sec", 10)
	v.SetDefault("engine.default_threshold_km", DefaultThresholdKm)
	v.SetDefault("notify.title", "KAZI IPO! 🔔")
	v.SetDefault("notify.delay_sec", 1)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
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

	v.Set("database_path", cfg.DatabasePath)
	v.Set("engine", cfg.Engine)
	v.Set("notify", cfg.Notify)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
