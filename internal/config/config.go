// Package config holds runtime configuration for the forge CLI.
package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config controls where projects live and how the generation pipeline
// behaves. Values come from FORGE_* environment variables (a local .env is
// honored) and may be overridden by command flags bound through viper.
type Config struct {
	ProjectsDir string `mapstructure:"projects_dir"`
	DefaultHost string `mapstructure:"default_host"`
	DefaultPort int    `mapstructure:"default_port"`
	MaxRetries  int    `mapstructure:"max_retries"`
	RetryDelay  int    `mapstructure:"retry_delay"` // base backoff seconds for rate limits
	Debug       bool   `mapstructure:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ProjectsDir: "forge_projects",
		DefaultHost: "localhost",
		DefaultPort: 8501,
		MaxRetries:  3,
		RetryDelay:  30,
		Debug:       false,
	}
}

// Load reads configuration from the environment on top of the defaults.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	v := viper.GetViper()
	v.SetDefault("projects_dir", "forge_projects")
	v.SetDefault("default_host", "localhost")
	v.SetDefault("default_port", 8501)
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_delay", 30)
	v.SetDefault("debug", false)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return cfg, nil
}
