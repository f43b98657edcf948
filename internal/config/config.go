// Package config loads InterviewAce settings from an optional config
// file, a .env file and INTERVIEWACE_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/interviewace/interviewace/internal/llm"
	"github.com/interviewace/interviewace/internal/store"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "INTERVIEWACE"

// Config is the configuration to start the server or a CLI command.
type Config struct {
	// Mode can be "prod", "dev" or "demo".
	Mode string
	// Addr is the binding address for the HTTP server.
	Addr string
	// Port is the binding port for the HTTP server.
	Port int

	DB DBConfig

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	LLM llm.Config

	// AIEnabled is derived: true iff the selected provider has a key.
	AIEnabled bool

	RateLimit RateLimitConfig
}

// DBConfig selects the session store.
type DBConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	DSN    string
}

// RateLimitConfig bounds AI endpoint calls per user.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// IsDev reports whether the server runs outside production.
func (c *Config) IsDev() bool {
	return c.Mode != "prod"
}

// ListenAddr joins Addr and Port.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

// SlogLevel converts LogLevel, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Load reads configuration. path names an optional config file (yaml,
// toml or json); a .env file in the working directory is loaded first
// when present. The result is validated.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Vendor variables are honored alongside the prefixed ones.
	for key, vendor := range map[string]string{
		"llm.openrouter.api_key": "OPENROUTER_API_KEY",
		"llm.openai.api_key":     "OPENAI_API_KEY",
		"llm.anthropic.api_key":  "ANTHROPIC_API_KEY",
		"llm.gemini.api_key":     "GEMINI_API_KEY",
	} {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, vendor); err != nil {
			return nil, errors.Wrapf(err, "failed to bind %s", key)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	c := fromViper(v)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("mode", "dev")
	v.SetDefault("addr", "")
	v.SetDefault("port", 8081)
	v.SetDefault("log_level", "info")
	v.SetDefault("db.driver", store.DriverSQLite)
	v.SetDefault("db.dsn", "")

	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", d.OpenRouter.BaseURL)
	v.SetDefault("llm.openrouter.referer", d.OpenRouter.Referer)
	v.SetDefault("llm.openrouter.title", d.OpenRouter.Title)
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", d.OpenAI.BaseURL)
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", d.Anthropic.BaseURL)
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", d.Gemini.BaseURL)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 5)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Mode:     strings.ToLower(v.GetString("mode")),
		Addr:     v.GetString("addr"),
		Port:     v.GetInt("port"),
		LogLevel: strings.ToLower(v.GetString("log_level")),
		DB: DBConfig{
			Driver: strings.ToLower(v.GetString("db.driver")),
			DSN:    v.GetString("db.dsn"),
		},
		LLM: llm.Config{
			Provider: strings.ToLower(v.GetString("llm.provider")),
			Timeout:  v.GetDuration("llm.timeout"),
			OpenRouter: llm.OpenRouterConfig{
				APIKey:  v.GetString("llm.openrouter.api_key"),
				Model:   v.GetString("llm.openrouter.model"),
				BaseURL: v.GetString("llm.openrouter.base_url"),
				Referer: v.GetString("llm.openrouter.referer"),
				Title:   v.GetString("llm.openrouter.title"),
			},
			OpenAI: llm.OpenAIConfig{
				APIKey:  v.GetString("llm.openai.api_key"),
				Model:   v.GetString("llm.openai.model"),
				BaseURL: v.GetString("llm.openai.base_url"),
			},
			Anthropic: llm.AnthropicConfig{
				APIKey:  v.GetString("llm.anthropic.api_key"),
				Model:   v.GetString("llm.anthropic.model"),
				BaseURL: v.GetString("llm.anthropic.base_url"),
			},
			Gemini: llm.GeminiConfig{
				APIKey:  v.GetString("llm.gemini.api_key"),
				Model:   v.GetString("llm.gemini.model"),
				BaseURL: v.GetString("llm.gemini.base_url"),
			},
			Retry: llm.RetryConfig{
				MaxAttempts: v.GetInt("llm.retry.max_attempts"),
				InitialWait: v.GetDuration("llm.retry.initial_wait"),
				MaxWait:     v.GetDuration("llm.retry.max_wait"),
				Multiplier:  v.GetFloat64("llm.retry.multiplier"),
			},
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("ratelimit.rps"),
			Burst: v.GetInt("ratelimit.burst"),
		},
	}
}

// Validate normalizes the mode, fills the sqlite path and checks the
// driver, provider and limits. A provider without a key is not an error:
// the server runs on the deterministic path with AIEnabled false.
func (c *Config) Validate() error {
	if c.Mode != "demo" && c.Mode != "dev" && c.Mode != "prod" {
		c.Mode = "dev"
	}

	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("invalid port %d", c.Port)
	}

	switch c.DB.Driver {
	case store.DriverSQLite:
		if c.DB.DSN == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return errors.Wrap(err, "failed to resolve database path")
			}
			c.DB.DSN = p
		}
	case store.DriverPostgres:
		if c.DB.DSN == "" {
			return errors.New("db.dsn is required for the postgres driver")
		}
	default:
		return errors.Errorf("unsupported db driver %q", c.DB.Driver)
	}

	if !slices.Contains(llm.ProviderNames, c.LLM.Provider) {
		return errors.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 20 * time.Second
	}
	c.AIEnabled = c.LLM.HasCredential()

	if c.RateLimit.RPS <= 0 {
		return errors.Errorf("ratelimit.rps must be positive, got %v", c.RateLimit.RPS)
	}
	if c.RateLimit.Burst < 1 {
		c.RateLimit.Burst = 1
	}
	return nil
}
