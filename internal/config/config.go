// Package config loads the mochi configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all mochi configuration.
type Config struct {
	Name string `yaml:"name"`

	Companion   CompanionConfig   `yaml:"companion"`
	Emotion     EmotionConfig     `yaml:"emotion"`
	Personality PersonalityConfig `yaml:"personality"`
	LLM         LLMConfig         `yaml:"llm"`
	Perception  PerceptionConfig  `yaml:"perception"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CompanionConfig configures the host loop.
type CompanionConfig struct {
	Seed           int64  `yaml:"seed"`            // 0: seed from the clock
	Born           string `yaml:"born"`            // YYYY-MM-DD; empty: first start
	UpdateInterval string `yaml:"update_interval"` // emotion decay tick
	DecideInterval string `yaml:"decide_interval"` // decision cycle
	GrowthInterval string `yaml:"growth_interval"` // personality growth
}

// EmotionConfig configures the emotion engine.
type EmotionConfig struct {
	DefaultDuration        string  `yaml:"default_duration"`
	FluctuationProbability float64 `yaml:"fluctuation_probability"`
}

// PersonalityConfig configures the personality system.
type PersonalityConfig struct {
	TraitsFile string `yaml:"traits_file"` // yaml trait vector to start from
}

// LLMConfig configures the Ollama backend.
type LLMConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// PerceptionConfig configures the file watcher.
type PerceptionConfig struct {
	WatchDirs  []string `yaml:"watch_dirs"`
	MaxChanges int      `yaml:"max_changes"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "mochi",

		Companion: CompanionConfig{
			UpdateInterval: "1s",
			DecideInterval: "10s",
			GrowthInterval: "24h",
		},

		Emotion: EmotionConfig{
			DefaultDuration:        "5m",
			FluctuationProbability: 0.1,
		},

		LLM: LLMConfig{
			Enabled: false,
			BaseURL: "http://localhost:11434",
			Model:   "llama3.2:3b",
			Timeout: "60s",
		},

		Perception: PerceptionConfig{
			MaxChanges: 32,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies MOCHI_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("MOCHI_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing MOCHI_SEED: %w", err)
		}
		c.Companion.Seed = seed
	}
	if v := os.Getenv("MOCHI_OLLAMA_URL"); v != "" {
		c.LLM.BaseURL = v
		c.LLM.Enabled = true
	}
	if v := os.Getenv("MOCHI_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("MOCHI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks values that would otherwise be silently defaulted.
func (c *Config) Validate() error {
	durations := []struct {
		name, value string
	}{
		{"companion.update_interval", c.Companion.UpdateInterval},
		{"companion.decide_interval", c.Companion.DecideInterval},
		{"companion.growth_interval", c.Companion.GrowthInterval},
		{"emotion.default_duration", c.Emotion.DefaultDuration},
		{"llm.timeout", c.LLM.Timeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, d.name, err)
		}
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalid, d.name)
		}
	}

	if p := c.Emotion.FluctuationProbability; p < 0 || p > 1 {
		return fmt.Errorf("%w: emotion.fluctuation_probability %v outside [0, 1]", ErrInvalid, p)
	}
	if c.Perception.MaxChanges < 0 {
		return fmt.Errorf("%w: perception.max_changes must not be negative", ErrInvalid)
	}
	if c.Companion.Born != "" {
		if _, err := time.Parse(time.DateOnly, c.Companion.Born); err != nil {
			return fmt.Errorf("%w: companion.born: %v", ErrInvalid, err)
		}
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalid, err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging.format %q (valid: json, console)", ErrInvalid, c.Logging.Format)
	}
	if c.LLM.Enabled && c.LLM.BaseURL == "" {
		return fmt.Errorf("%w: llm.base_url required when llm is enabled", ErrInvalid)
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetUpdateInterval returns the emotion update interval.
func (c *Config) GetUpdateInterval() time.Duration {
	return parseDuration(c.Companion.UpdateInterval, time.Second)
}

// GetDecideInterval returns the decision interval.
func (c *Config) GetDecideInterval() time.Duration {
	return parseDuration(c.Companion.DecideInterval, 10*time.Second)
}

// GetGrowthInterval returns the personality growth interval.
func (c *Config) GetGrowthInterval() time.Duration {
	return parseDuration(c.Companion.GrowthInterval, 24*time.Hour)
}

// GetEmotionDuration returns the default emotion duration.
func (c *Config) GetEmotionDuration() time.Duration {
	return parseDuration(c.Emotion.DefaultDuration, 5*time.Minute)
}

// GetLLMTimeout returns the LLM request timeout.
func (c *Config) GetLLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 60*time.Second)
}

// GetBorn returns the companion's birth date, or fallback when unset or
// malformed.
func (c *Config) GetBorn(fallback time.Time) time.Time {
	if c.Companion.Born == "" {
		return fallback
	}
	t, err := time.Parse(time.DateOnly, c.Companion.Born)
	if err != nil {
		return fallback
	}
	return t
}
