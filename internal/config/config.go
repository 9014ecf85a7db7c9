// Package config loads server settings from an optional YAML file and the
// environment.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "STUDYHUB_CONFIG"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Practice  PracticeConfig  `koanf:"practice"`
	Database  DatabaseConfig  `koanf:"database"`
	Solver    SolverConfig    `koanf:"solver"`
	Anthropic AnthropicConfig `koanf:"anthropic"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// Comma separated list; "*" allows any origin.
	AllowedOrigins string `koanf:"allowed_origins"`
}

type PracticeConfig struct {
	QuestionSeconds int           `koanf:"question_seconds"`
	TickInterval    time.Duration `koanf:"tick_interval"`
	SessionIdleTTL  time.Duration `koanf:"session_idle_ttl"`
	CatalogPath     string        `koanf:"catalog_path"`
}

// DatabaseConfig is only used for notes. An empty URL keeps notes in memory.
type DatabaseConfig struct {
	URL          string `koanf:"url"`
	MaxOpenConns int    `koanf:"max_open_conns"`
}

type SolverConfig struct {
	// Backend is http, anthropic or stub. Empty picks http when URL is set
	// and stub otherwise.
	Backend        string        `koanf:"backend"`
	URL            string        `koanf:"url"`
	Timeout        time.Duration `koanf:"timeout"`
	RatePerMinute  int           `koanf:"rate_per_minute"`
	AnthropicModel string        `koanf:"anthropic_model"`
}

type AnthropicConfig struct {
	APIKey string `koanf:"api_key"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads the YAML file at path, if any, then applies environment
// overrides such as SERVER_PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Split on the first underscore only so field names keep theirs.
	if err := k.Load(env.Provider("", ".", func(s string) string {
		parts := strings.SplitN(strings.ToLower(s), "_", 2)
		if len(parts) == 1 {
			return parts[0]
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s is larger than %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.AllowedOrigins == "" {
		cfg.Server.AllowedOrigins = "*"
	}

	if cfg.Practice.QuestionSeconds == 0 {
		cfg.Practice.QuestionSeconds = 60
	}
	if cfg.Practice.TickInterval == 0 {
		cfg.Practice.TickInterval = time.Second
	}
	if cfg.Practice.SessionIdleTTL == 0 {
		cfg.Practice.SessionIdleTTL = 30 * time.Minute
	}

	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}

	if cfg.Solver.Backend == "" {
		if cfg.Solver.URL != "" {
			cfg.Solver.Backend = "http"
		} else {
			cfg.Solver.Backend = "stub"
		}
	}
	if cfg.Solver.Timeout == 0 {
		cfg.Solver.Timeout = 15 * time.Second
	}
	if cfg.Solver.RatePerMinute == 0 {
		cfg.Solver.RatePerMinute = 30
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	if c.Practice.QuestionSeconds < 1 {
		return fmt.Errorf("practice.question_seconds must be positive, got %d", c.Practice.QuestionSeconds)
	}
	if c.Practice.TickInterval <= 0 {
		return fmt.Errorf("practice.tick_interval must be positive")
	}
	if c.Practice.SessionIdleTTL <= 0 {
		return fmt.Errorf("practice.session_idle_ttl must be positive")
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be positive, got %d", c.Database.MaxOpenConns)
	}

	switch c.Solver.Backend {
	case "stub":
	case "http":
		if c.Solver.URL == "" {
			return fmt.Errorf("solver.url is required for the http backend")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("anthropic.api_key is required for the anthropic backend")
		}
	default:
		return fmt.Errorf("solver.backend must be http, anthropic or stub, got %q", c.Solver.Backend)
	}
	if c.Solver.Timeout <= 0 {
		return fmt.Errorf("solver.timeout must be positive")
	}
	if c.Solver.RatePerMinute < 0 {
		return fmt.Errorf("solver.rate_per_minute must not be negative")
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// Origins splits AllowedOrigins into a list.
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
