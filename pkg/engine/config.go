package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/germanamz/llm7chat/pkg/capability"
	"github.com/germanamz/llm7chat/pkg/modeladapter"
)

// DefaultBaseURL is the public llm7 endpoint.
const DefaultBaseURL = "https://api.llm7.io"

// Client kinds.
const (
	ClientNative = "native"
	ClientSDK    = "sdk"
)

// Config is the top-level engine configuration.
type Config struct {
	BaseURL string `yaml:"base_url" toml:"base_url"`
	// APIKey is sent as a bearer token. llm7 accepts any value.
	APIKey string `yaml:"api_key" toml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	// Headers are added to every outbound request, e.g. for a proxy in front
	// of the endpoint.
	Headers map[string]string `yaml:"headers" toml:"headers"`
	// Client selects the completer: "native" (hand-written JSON), "sdk"
	// (openai-go) or a kind added with RegisterClient.
	Client       string  `yaml:"client" toml:"client"`
	DefaultModel string  `yaml:"default_model" toml:"default_model"`
	MaxTokens    int     `yaml:"max_tokens" toml:"max_tokens"`
	Temperature  float64 `yaml:"temperature" toml:"temperature"`
	// RequestTimeout is a duration string (e.g. "90s"). Empty means no
	// timeout.
	RequestTimeout string `yaml:"request_timeout" toml:"request_timeout"`
	// Models are added to the built-in catalog; an entry with a built-in ID
	// replaces it.
	Models   []capability.Model `yaml:"models" toml:"models"`
	LogFile  string             `yaml:"log_file" toml:"log_file"`
	LogLevel string             `yaml:"log_level" toml:"log_level"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		APIKey:       "unused",
		Client:       ClientNative,
		DefaultModel: capability.DefaultModel,
		MaxTokens:    modeladapter.DefaultMaxTokens,
		Temperature:  modeladapter.DefaultTemperature,
		LogLevel:     "info",
	}
}

// LoadConfig reads a YAML file, or a TOML file when the extension is .toml,
// over Defaults. Environment variables referenced as ${VAR} or $VAR are
// expanded before parsing, so keys can live in the environment (e.g. a .env
// file). An empty path or a missing file yields Defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return Config{}, fmt.Errorf("engine: parse config: %w", err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("engine: config: base_url is required")
	}

	if c.Client != "" {
		if _, ok := getFactory(c.Client); !ok {
			return fmt.Errorf("engine: config: unknown client %q", c.Client)
		}
	}

	for name := range c.Headers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("engine: config: header name is required")
		}
	}

	if c.MaxTokens < 0 {
		return fmt.Errorf("engine: config: max_tokens must not be negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("engine: config: temperature %v out of range [0, 2]", c.Temperature)
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	ids := make(map[string]struct{}, len(c.Models))
	for _, m := range c.Models {
		if m.ID == "" {
			return fmt.Errorf("engine: config: model id is required")
		}
		if _, dup := ids[m.ID]; dup {
			return fmt.Errorf("engine: config: duplicate model id %q", m.ID)
		}
		ids[m.ID] = struct{}{}
	}

	if c.DefaultModel != "" {
		if _, ok := c.Catalog().Lookup(c.DefaultModel); !ok {
			return fmt.Errorf("engine: config: default_model %q not found in models", c.DefaultModel)
		}
	}

	return nil
}

// Timeout parses RequestTimeout.
func (c Config) Timeout() (time.Duration, error) {
	if c.RequestTimeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("engine: config: invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("engine: config: request_timeout must not be negative")
	}

	return d, nil
}

// Level parses LogLevel. Empty means info.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("engine: config: invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Catalog returns the built-in catalog extended with Models.
func (c Config) Catalog() *capability.Catalog {
	return capability.Default(c.Models...)
}
