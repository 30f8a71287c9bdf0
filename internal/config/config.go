// Package config loads aeosnap settings from an optional aeosnap.yml, an
// optional .env file and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dusk-indust/aeosnap/internal/generation"
	"github.com/dusk-indust/aeosnap/internal/section"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvDefaultModel = "DEFAULT_MODEL"
	EnvGatewayKey   = "AI_GATEWAY_API_KEY"
	EnvGatewayURL   = "AI_GATEWAY_BASE_URL"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvAddr         = "AEOSNAP_ADDR"
)

// FileNames are the config file names Load looks for, in order.
var FileNames = []string{"aeosnap.yml", "aeosnap.yaml"}

// Config holds every process-level setting.
type Config struct {
	DefaultModel string        `yaml:"defaultModel,omitempty"`
	Sections     []string      `yaml:"sections,omitempty"`
	Server       ServerConfig  `yaml:"server,omitempty"`
	Backend      BackendConfig `yaml:"backend,omitempty"`
	Models       ModelsConfig  `yaml:"models,omitempty"`
	Log          LogConfig     `yaml:"log,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// BackendConfig configures the generation providers.
type BackendConfig struct {
	GatewayURL string          `yaml:"gatewayURL,omitempty"`
	GatewayKey string          `yaml:"gatewayKey,omitempty"`
	GeminiKey  string          `yaml:"geminiKey,omitempty"`
	Timeout    time.Duration   `yaml:"timeout,omitempty"`
	RateLimit  RateLimitConfig `yaml:"rateLimit,omitempty"`
}

// RateLimitConfig is a token bucket shared by all backend calls.
// RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps,omitempty"`
	Burst int     `yaml:"burst,omitempty"`
}

// ModelsConfig controls how requested model ids are routed.
type ModelsConfig struct {
	Strict   bool               `yaml:"strict,omitempty"`
	Fallback string             `yaml:"fallback,omitempty"`
	Routes   []generation.Route `yaml:"routes,omitempty"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Defaults returns a Config with every default applied.
func Defaults() *Config {
	return &Config{
		DefaultModel: "openai/gpt-4o-mini",
		Server:       ServerConfig{Addr: ":8080"},
		Backend:      BackendConfig{GatewayURL: generation.DefaultGatewayURL},
		Models: ModelsConfig{
			Fallback: generation.DefaultFallback,
			Routes:   append([]generation.Route(nil), generation.DefaultRoutes...),
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load attempts to read aeosnap.yml or aeosnap.yaml from the given
// directory. Returns the defaults (not an error) if no config file exists.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return parse(path, data)
	}
	return Defaults(), nil
}

// LoadFile reads an explicitly named config file. Unlike Load, a missing file
// is an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotenv loads dir/.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotenv(dir string) error {
	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read through
// getenv. Empty variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.DefaultModel, EnvDefaultModel)
	set(&c.Backend.GatewayKey, EnvGatewayKey)
	set(&c.Backend.GatewayURL, EnvGatewayURL)
	set(&c.Backend.GeminiKey, EnvGeminiKey)
	set(&c.Server.Addr, EnvAddr)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DefaultModel) == "" {
		return errors.New("config: defaultModel must not be empty")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr must not be empty")
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("config: backend.timeout must not be negative, got %s", c.Backend.Timeout)
	}
	if c.Backend.RateLimit.RPS < 0 || c.Backend.RateLimit.Burst < 0 {
		return errors.New("config: backend.rateLimit values must not be negative")
	}
	if !strings.Contains(c.Models.Fallback, "/") {
		return fmt.Errorf("config: models.fallback must be provider/model, got %q", c.Models.Fallback)
	}
	for i, r := range c.Models.Routes {
		if r.Prefix == "" || !strings.Contains(r.Target, "/") {
			return fmt.Errorf("config: models.routes[%d] needs a prefix and a provider/model target", i)
		}
	}
	if _, err := section.Select(c.Sections); err != nil {
		return fmt.Errorf("config: sections: %w", err)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log.format %q", c.Log.Format)
	}
	return nil
}
