// Package config provides daemon configuration using Viper.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// Config holds all configuration values.
type Config struct {
	Variant              domain.Variant `mapstructure:"variant"`
	PollInterval         time.Duration  `mapstructure:"poll_interval"`
	PolicyReloadInterval time.Duration  `mapstructure:"policy_reload_interval"`
	PolicyFile           string         `mapstructure:"policy_file"`
	Logging              LoggingConfig  `mapstructure:"logging"`
	Audit                AuditConfig    `mapstructure:"audit"`
}

// LoggingConfig holds zap logger settings.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"` // empty means stderr
	Development bool   `mapstructure:"development"`
}

// AuditConfig holds settings for the encrypted audit log.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DataDir string `mapstructure:"data_dir"`
}

// Paths holds resolved filesystem paths.
type Paths struct {
	ConfigFile string
	ConfigDir  string
	PolicyFile string
	DataDir    string
}

// Load loads configuration from the given path or default locations.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(ResolvePaths().ConfigDir)
	}

	v.SetEnvPrefix("APPBLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a Config with all default values.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)

	return &cfg
}

// ResolvePaths returns the resolved filesystem paths for the current platform.
func ResolvePaths() *Paths {
	configDir := getConfigDir()
	return &Paths{
		ConfigFile: filepath.Join(configDir, "config.yaml"),
		ConfigDir:  configDir,
		PolicyFile: filepath.Join(configDir, "policy.yaml"),
		DataDir:    getDataDir(),
	}
}
