// Package config handles configuration loading and management for Steward.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Steward.
type Config struct {
	DB       DBConfig       `mapstructure:"db"`
	Registry RegistryConfig `mapstructure:"registry"`
	Workers  WorkersConfig  `mapstructure:"workers"`
	TUI      TUIConfig      `mapstructure:"tui"`
	Log      LogConfig      `mapstructure:"log"`
}

// DBConfig holds task store settings.
type DBConfig struct {
	// Path is the SQLite database file. Empty picks the XDG data default.
	Path string `mapstructure:"path"`
}

// RegistryConfig holds capability registry settings.
type RegistryConfig struct {
	// Path is the registry YAML file. Empty uses the built-in registry.
	Path string `mapstructure:"path"`
	// HaltOnChange pauses dispatching when the registry file changes on
	// disk, instead of only recording the change.
	HaltOnChange bool `mapstructure:"halt_on_change"`
}

// WorkersConfig holds worker execution settings.
type WorkersConfig struct {
	// MaxConcurrent bounds parallel workers.
	MaxConcurrent int `mapstructure:"max_concurrent"`
	// TransitionRetries bounds CAS retry attempts per status transition.
	TransitionRetries int `mapstructure:"transition_retries"`
	// WaitForBlockers makes workers wait on spawned blocker tasks.
	WaitForBlockers bool `mapstructure:"wait_for_blockers"`
	// BlockerWaitTimeout bounds that wait.
	BlockerWaitTimeout time.Duration `mapstructure:"blocker_wait_timeout"`
}

// TUIConfig holds board display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// LogConfig holds session log settings.
type LogConfig struct {
	// Path is the session log file. Empty disables the file and keeps only
	// the in-memory tail.
	Path string `mapstructure:"path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (STEWARD_*)
// 2. Project config (.steward.yaml in current directory or parent)
// 3. User config (~/.config/steward/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("STEWARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("db.path", cfg.DB.Path)
	v.Set("registry.path", cfg.Registry.Path)
	v.Set("registry.halt_on_change", cfg.Registry.HaltOnChange)
	v.Set("workers.max_concurrent", cfg.Workers.MaxConcurrent)
	v.Set("workers.transition_retries", cfg.Workers.TransitionRetries)
	v.Set("workers.wait_for_blockers", cfg.Workers.WaitForBlockers)
	v.Set("workers.blocker_wait_timeout", cfg.Workers.BlockerWaitTimeout.String())
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())
	v.Set("log.path", cfg.Log.Path)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "")
	v.SetDefault("registry.path", "")
	v.SetDefault("registry.halt_on_change", false)
	v.SetDefault("workers.max_concurrent", 4)
	v.SetDefault("workers.transition_retries", 3)
	v.SetDefault("workers.wait_for_blockers", false)
	v.SetDefault("workers.blocker_wait_timeout", "5m")
	v.SetDefault("tui.refresh_rate", "500ms")
	v.SetDefault("log.path", "")
}

// getUserConfigDir returns the XDG config directory for Steward.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "steward")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "steward")
	}
	return filepath.Join(home, ".config", "steward")
}

// findProjectConfig searches for .steward.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".steward.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Workers: WorkersConfig{
			MaxConcurrent:      4,
			TransitionRetries:  3,
			WaitForBlockers:    false,
			BlockerWaitTimeout: 5 * time.Minute,
		},
		TUI: TUIConfig{
			RefreshRate: 500 * time.Millisecond,
		},
	}
}
