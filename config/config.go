// Package config loads distill's YAML configuration.
//
// The file lives at $XDG_CONFIG_HOME/distill/config.yaml by default.
// ${VAR} references are expanded before parsing, and provider credentials
// fall back to the usual environment variables when the file leaves them
// empty. A missing file yields the defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

// Getenv looks up an environment variable. Callers pass os.Getenv; tests
// pass a map lookup.
type Getenv func(key string) string

// Config is the root of the configuration file.
type Config struct {
	Provider  string                    `yaml:"provider,omitempty"`
	Providers map[string]ProviderConfig `yaml:"providers,omitempty"`
	Stream    StreamConfig              `yaml:"stream"`
	Log       LogConfig                 `yaml:"log"`
}

// ProviderConfig holds per-provider connection settings.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// StreamConfig holds aggregator tuning. Durations are in milliseconds.
type StreamConfig struct {
	MaxRetries          *int `yaml:"max_retries,omitempty"`
	ThrottleMS          *int `yaml:"throttle_ms,omitempty"`
	MinEagerChars       *int `yaml:"min_eager_chars,omitempty"`
	InactivityTimeoutMS int  `yaml:"inactivity_timeout_ms,omitempty"`
}

// LogConfig holds logging settings. An empty File logs to stderr.
type LogConfig struct {
	LevelName  string `yaml:"level,omitempty"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}

// Log defaults.
const (
	DefaultLogLevel   = "info"
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 5
	DefaultMaxAgeDays = 30
)

// envKeys maps providers to the environment variable holding their key.
var envKeys = map[distill.Provider]string{
	distill.ProviderOpenAI:     "OPENAI_API_KEY",
	distill.ProviderClaude:     "ANTHROPIC_API_KEY",
	distill.ProviderDeepSeek:   "DEEPSEEK_API_KEY",
	distill.ProviderOpenRouter: "OPENROUTER_API_KEY",
	distill.ProviderGemini:     "GEMINI_API_KEY",
	distill.ProviderOllama:     "OLLAMA_API_KEY",
}

// EnvKey returns the environment variable consulted for p's API key.
func EnvKey(p distill.Provider) string { return envKeys[p] }

// Default returns the configuration used when no file exists.
func Default() *Config {
	d := distill.DefaultStreamConfig()
	retries, eager := d.MaxRetries, d.MinEagerChars
	throttle := int(d.Throttle / time.Millisecond)
	return &Config{
		Providers: map[string]ProviderConfig{},
		Stream: StreamConfig{
			MaxRetries:    &retries,
			ThrottleMS:    &throttle,
			MinEagerChars: &eager,
		},
		Log: LogConfig{
			LevelName:  DefaultLogLevel,
			MaxSizeMB:  DefaultMaxSizeMB,
			MaxBackups: DefaultMaxBackups,
			MaxAgeDays: DefaultMaxAgeDays,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/distill/config.yaml, falling back to
// $HOME/.config when XDG_CONFIG_HOME is unset.
func DefaultPath(getenv Getenv) string {
	dir := getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "distill", "config.yaml")
}

// Load reads the configuration at path. A missing file is not an error.
func Load(path string, getenv Getenv) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	if err := Parse(data, getenv, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse expands ${VAR} references in data and decodes it over cfg. Unknown
// keys are rejected.
func Parse(data []byte, getenv Getenv, cfg *Config) error {
	expanded := os.Expand(string(data), getenv)
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: parse: %w", err)
	}
	if cfg.Providers == nil {
		cfg.Providers = map[string]ProviderConfig{}
	}
	applyDefaults(cfg)
	return cfg.validate()
}

func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.Stream.MaxRetries == nil {
		cfg.Stream.MaxRetries = d.Stream.MaxRetries
	}
	if cfg.Stream.ThrottleMS == nil {
		cfg.Stream.ThrottleMS = d.Stream.ThrottleMS
	}
	if cfg.Stream.MinEagerChars == nil {
		cfg.Stream.MinEagerChars = d.Stream.MinEagerChars
	}
	if cfg.Log.LevelName == "" {
		cfg.Log.LevelName = DefaultLogLevel
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = DefaultMaxSizeMB
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = DefaultMaxBackups
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = DefaultMaxAgeDays
	}
}

func (c *Config) validate() error {
	if c.Provider != "" {
		if _, err := distill.ParseProvider(c.Provider); err != nil {
			return fmt.Errorf("config: provider: %w", err)
		}
	}
	for name := range c.Providers {
		if _, err := distill.ParseProvider(name); err != nil {
			return fmt.Errorf("config: providers: %w", err)
		}
	}
	if _, err := logrus.ParseLevel(c.Log.LevelName); err != nil {
		return fmt.Errorf("config: log: %w", err)
	}
	if err := c.StreamConfig().Validate(); err != nil {
		return fmt.Errorf("config: stream: %w", err)
	}
	return nil
}

// Level returns the configured log level.
func (l LogConfig) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(l.LevelName)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Rotator returns a rotating writer for File, or nil when File is empty.
func (l LogConfig) Rotator() *lumberjack.Logger {
	if l.File == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAgeDays,
		Compress:   true,
	}
}

// StreamConfig converts the stream section to aggregator settings.
func (c *Config) StreamConfig() distill.StreamConfig {
	sc := distill.DefaultStreamConfig()
	if c.Stream.MaxRetries != nil {
		sc.MaxRetries = *c.Stream.MaxRetries
	}
	if c.Stream.ThrottleMS != nil {
		sc.Throttle = time.Duration(*c.Stream.ThrottleMS) * time.Millisecond
	}
	if c.Stream.MinEagerChars != nil {
		sc.MinEagerChars = *c.Stream.MinEagerChars
	}
	sc.InactivityTimeout = time.Duration(c.Stream.InactivityTimeoutMS) * time.Millisecond
	return sc
}

// ProviderFor returns the settings of p, with the API key falling back to
// its environment variable. Ollama's base URL falls back to OLLAMA_HOST.
func (c *Config) ProviderFor(p distill.Provider, getenv Getenv) ProviderConfig {
	pc := c.lookup(p)
	if pc.APIKey == "" {
		if key := EnvKey(p); key != "" {
			pc.APIKey = getenv(key)
		}
	}
	if pc.BaseURL == "" && p == distill.ProviderOllama {
		pc.BaseURL = ollamaHost(getenv("OLLAMA_HOST"))
	}
	return pc
}

// Configured lists the providers that have a key, in display order. Ollama
// needs no key and is listed only when it appears in the file or OLLAMA_HOST
// is set.
func (c *Config) Configured(getenv Getenv) []distill.Provider {
	var out []distill.Provider
	for _, p := range distill.Providers() {
		if p == distill.ProviderOllama {
			if _, ok := c.lookupOK(p); ok || getenv("OLLAMA_HOST") != "" {
				out = append(out, p)
			}
			continue
		}
		if c.ProviderFor(p, getenv).APIKey != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) lookup(p distill.Provider) ProviderConfig {
	pc, _ := c.lookupOK(p)
	return pc
}

// lookupOK accepts any spelling ParseProvider understands, so "anthropic"
// and "Claude" both find the Claude section.
func (c *Config) lookupOK(p distill.Provider) (ProviderConfig, bool) {
	for name, pc := range c.Providers {
		if got, err := distill.ParseProvider(name); err == nil && got == p {
			return pc, true
		}
	}
	return ProviderConfig{}, false
}

// ollamaHost turns an OLLAMA_HOST value into a base URL. Ollama itself
// accepts a bare host:port.
func ollamaHost(host string) string {
	if host == "" {
		return ""
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/")
}
