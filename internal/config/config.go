// Package config loads the application configuration from an optional
// YAML file with environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variable names. Variables override file values.
const (
	EnvAPIKey    = "OPENAI_API_KEY"
	EnvModelName = "OPENAI_MODEL_NAME"
	EnvDataDir   = "CESTA_DATA_DIR"
	EnvRedisAddr = "CESTA_REDIS_ADDR"
	EnvListen    = "CESTA_LISTEN_ADDR"
	EnvLogLevel  = "CESTA_LOG_LEVEL"
)

// Config is the full application configuration.
type Config struct {
	// DataDir holds the JSON data files (catalog, saves, carts).
	DataDir string `yaml:"data_dir"`

	// Budget is the default budget for batch planning. Zero means no
	// ceiling unless BudgetSet is true.
	Budget    float64 `yaml:"budget"`
	BudgetSet bool    `yaml:"-"`

	OpenAI OpenAIConfig `yaml:"openai"`
	Redis  RedisConfig  `yaml:"redis"`
	Server ServerConfig `yaml:"server"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// OpenAIConfig configures the capability backend. An empty APIKey leaves
// every LLM-backed capability unwired; the engines degrade gracefully.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Configured reports whether the capability backend can be built.
func (c OpenAIConfig) Configured() bool {
	return c.APIKey != ""
}

// RedisConfig configures the optional catalog cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"`
}

// Enabled reports whether the cache should be wired.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:  "data",
		LogLevel: "info",
		Server:   ServerConfig{Listen: ":8080"},
	}
}

// Load reads path (optional; missing file is fine) and applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
			if cfg.Budget != 0 {
				cfg.BudgetSet = true
			}
		case os.IsNotExist(err):
			// Defaults plus environment only.
		default:
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv(EnvModelName); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// ParseBudget interprets a CLI budget flag; empty means unset.
func ParseBudget(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid budget %q: %w", s, err)
	}
	if v < 0 {
		return nil, fmt.Errorf("budget must not be negative, got %s", s)
	}
	return &v, nil
}
