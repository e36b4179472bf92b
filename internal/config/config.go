// Package config loads punchcard.yml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/dyluth/punchcard/internal/clock"
	"github.com/dyluth/punchcard/internal/quote"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for a config file.
const DefaultPath = "punchcard.yml"

// Defaults applied by Validate.
const (
	DefaultTimezone   = "Asia/Manila"
	DefaultInstance   = "default"
	DefaultPrefix     = "!"
	DefaultRedisURL   = "redis://localhost:6379"
	DefaultHealthAddr = ":8080"
)

// Environment overrides.
const (
	EnvDiscordToken = "DISCORD_TOKEN"
	EnvRedisURL     = "REDIS_URL"
	EnvInstance     = "PUNCHCARD_INSTANCE"
	EnvTimezone     = "PUNCHCARD_TZ"
)

// PunchcardConfig represents the top-level punchcard.yml configuration
type PunchcardConfig struct {
	Version  string              `yaml:"version"`
	Timezone string              `yaml:"timezone,omitempty"` // IANA zone all day keys are computed in
	Instance string              `yaml:"instance,omitempty"` // Relay namespace
	Discord  *DiscordConfig      `yaml:"discord,omitempty"`
	Redis    *RedisConfig        `yaml:"redis,omitempty"`
	Health   *HealthConfig       `yaml:"health,omitempty"`
	Quotes   map[string][]string `yaml:"quotes,omitempty"` // Per-category overrides of the built-in pools
}

// DiscordConfig configures the Discord gateway adapter.
type DiscordConfig struct {
	Prefix  string `yaml:"prefix,omitempty"`
	GuildID string `yaml:"guild_id,omitempty"` // Empty registers /in globally
	Token   string `yaml:"-"`                  // Only ever read from DISCORD_TOKEN
}

// RedisConfig configures the relay connection.
type RedisConfig struct {
	URL string `yaml:"url,omitempty"`
}

// HealthConfig configures the /healthz listener.
type HealthConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Default returns a validated configuration with every default applied.
func Default() *PunchcardConfig {
	c := &PunchcardConfig{Version: "1.0"}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return c
}

// Validate performs strict validation and fills in defaults.
func (c *PunchcardConfig) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if _, err := clock.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	if c.Instance == "" {
		c.Instance = DefaultInstance
	}

	if c.Discord == nil {
		c.Discord = &DiscordConfig{}
	}
	if c.Discord.Prefix == "" {
		c.Discord.Prefix = DefaultPrefix
	}

	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	if c.Redis.URL == "" {
		c.Redis.URL = DefaultRedisURL
	}

	if c.Health == nil {
		c.Health = &HealthConfig{}
	}
	if c.Health.Addr == "" {
		c.Health.Addr = DefaultHealthAddr
	}

	// Sorted so the first bad category reported is stable.
	names := make([]string, 0, len(c.Quotes))
	for name := range c.Quotes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := quote.Category(name).Validate(); err != nil {
			return fmt.Errorf("quotes: %w", err)
		}
		if len(c.Quotes[name]) == 0 {
			return fmt.Errorf("quotes.%s cannot be empty (omit it to keep the built-in quotes)", name)
		}
	}

	return nil
}

// ApplyEnv overrides file settings with environment values and re-validates.
// lookup is usually os.Getenv.
func (c *PunchcardConfig) ApplyEnv(lookup func(string) string) error {
	if c.Discord == nil {
		c.Discord = &DiscordConfig{}
	}
	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}

	if v := lookup(EnvDiscordToken); v != "" {
		c.Discord.Token = v
	}
	if v := lookup(EnvRedisURL); v != "" {
		c.Redis.URL = v
	}
	if v := lookup(EnvInstance); v != "" {
		c.Instance = v
	}
	if v := lookup(EnvTimezone); v != "" {
		c.Timezone = v
	}

	return c.Validate()
}

// Location resolves the configured timezone.
func (c *PunchcardConfig) Location() (*time.Location, error) {
	return clock.LoadLocation(c.Timezone)
}

// QuotePools returns the built-in pools with configured overrides applied.
func (c *PunchcardConfig) QuotePools() quote.Pools {
	overrides := make(quote.Pools, len(c.Quotes))
	for name, quotes := range c.Quotes {
		overrides[quote.Category(name)] = quotes
	}
	return quote.DefaultPools().Merge(overrides)
}

// Load reads and validates punchcard.yml from the specified path
func Load(path string) (*PunchcardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config PunchcardConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist. Any other read or validation error is returned.
func LoadOrDefault(path string) (*PunchcardConfig, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
