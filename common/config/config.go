package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the racedata client and tools
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	API     APIConfig     `mapstructure:"api"`
	Export  ExportConfig  `mapstructure:"export"`
	MockAPI MockAPIConfig `mapstructure:"mockapi"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// APIConfig contains remote service and credential settings
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Email          string        `mapstructure:"email"`
	Password       string        `mapstructure:"password"`
	CustID         int           `mapstructure:"cust_id"`
	CookieFile     string        `mapstructure:"cookie_file"`
	LoginTimeout   time.Duration `mapstructure:"login_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ExportConfig controls where JSON exports are written
type ExportConfig struct {
	Root   string `mapstructure:"root"`
	Folder string `mapstructure:"folder"`
}

// MockAPIConfig controls the local mock origin
type MockAPIConfig struct {
	Port int `mapstructure:"port"`
}

// Load reads configuration from an optional config file and RACEDATA_* env vars.
// An empty path searches the working directory for config.{yaml,json,toml}.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.log_format", "text")
	v.SetDefault("api.base_url", "https://members-ng.iracing.com")
	v.SetDefault("api.login_timeout", 5*time.Second)
	v.SetDefault("api.request_timeout", 30*time.Second)
	v.SetDefault("export.root", ".")
	v.SetDefault("export.folder", "json")
	v.SetDefault("mockapi.port", 8780)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RACEDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base_url: %q", c.API.BaseURL)
	}

	if c.API.LoginTimeout <= 0 {
		return fmt.Errorf("login_timeout must be positive")
	}

	if c.MockAPI.Port < 1 || c.MockAPI.Port > 65535 {
		return fmt.Errorf("invalid mockapi port: %d", c.MockAPI.Port)
	}

	return nil
}
