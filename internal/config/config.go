// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel                 string        `mapstructure:"LOG_LEVEL"`
	Port                     string        `mapstructure:"PORT"`
	GithubToken              string        `mapstructure:"GITHUB_TOKEN"`
	GithubAPIURL             string        `mapstructure:"GITHUB_API_URL"`
	GithubTimeout            time.Duration `mapstructure:"GITHUB_TIMEOUT"`
	RepoLimit                int           `mapstructure:"REPO_LIMIT"`
	LanguageSampleSize       int           `mapstructure:"LANGUAGE_SAMPLE_SIZE"`
	LanguageFetchConcurrency int           `mapstructure:"LANGUAGE_FETCH_CONCURRENCY"`
	RequestTimeout           time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ShutdownTimeout          time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	CORSAllowedOrigins       []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// HasToken reports whether live GitHub data can be fetched.
func (c *Config) HasToken() bool {
	return c.GithubToken != ""
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", "8080")
	v.SetDefault("GITHUB_API_URL", "")
	v.SetDefault("GITHUB_TIMEOUT", "30s")
	v.SetDefault("REPO_LIMIT", 100)
	v.SetDefault("LANGUAGE_SAMPLE_SIZE", 20)
	v.SetDefault("LANGUAGE_FETCH_CONCURRENCY", 1)
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The token has no default, so it must be bound explicitly. The VITE_
	// name is accepted for setups shared with the web client.
	if err := v.BindEnv("GITHUB_TOKEN", "GITHUB_TOKEN", "VITE_GITHUB_TOKEN"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.GithubToken = strings.TrimSpace(cfg.GithubToken)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("PORT is a required configuration field")
	}
	if c.RepoLimit < 1 || c.RepoLimit > 100 {
		return fmt.Errorf("REPO_LIMIT must be between 1 and 100, got %d", c.RepoLimit)
	}
	if c.LanguageSampleSize < 0 || c.LanguageSampleSize > c.RepoLimit {
		return fmt.Errorf("LANGUAGE_SAMPLE_SIZE must be between 0 and REPO_LIMIT (%d), got %d", c.RepoLimit, c.LanguageSampleSize)
	}
	if c.LanguageFetchConcurrency < 1 {
		return errors.New("LANGUAGE_FETCH_CONCURRENCY must be at least 1")
	}
	if c.GithubTimeout <= 0 || c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return errors.New("GITHUB_TIMEOUT, REQUEST_TIMEOUT and SHUTDOWN_TIMEOUT must be positive durations")
	}
	return nil
}
