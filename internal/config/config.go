// Package config loads calcx settings from a YAML file with CALCX_*
// environment overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/calcx/internal/keymap"
	"github.com/comalice/calcx/internal/production"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverJSON   = "json"
	DriverYAML   = "yaml"
	DriverRedis  = "redis"
)

// Config holds all calcx settings.
type Config struct {
	LogLevel string `yaml:"logLevel"`

	// Keymap overrides the default key bindings: key -> action name.
	Keymap map[string]string `yaml:"keymap"`

	Store StoreConfig `yaml:"store"`
}

// StoreConfig selects where sessions are persisted.
type StoreConfig struct {
	Driver string      `yaml:"driver"`
	Dir    string      `yaml:"dir"`
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Store: StoreConfig{
			Driver: DriverMemory,
			Dir:    "sessions",
			Redis: RedisConfig{
				Addr: "localhost:6379",
				TTL:  24 * time.Hour,
			},
		},
	}
}

// Load reads path on top of Default, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv("CALCX_LOG_LEVEL", c.LogLevel)
	c.Store.Driver = getEnv("CALCX_STORE_DRIVER", c.Store.Driver)
	c.Store.Dir = getEnv("CALCX_STORE_DIR", c.Store.Dir)
	c.Store.Redis.Addr = getEnv("CALCX_REDIS_ADDR", c.Store.Redis.Addr)
	c.Store.Redis.Password = getEnv("CALCX_REDIS_PASSWORD", c.Store.Redis.Password)
	c.Store.Redis.DB = getEnvInt("CALCX_REDIS_DB", c.Store.Redis.DB)
	c.Store.Redis.TTL = getEnvDuration("CALCX_REDIS_TTL", c.Store.Redis.TTL)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverJSON, DriverYAML:
		if c.Store.Dir == "" {
			errs = append(errs, "store.dir is required for file stores")
		}
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, "store.redis.addr is required for the redis store")
		}
		if c.Store.Redis.DB < 0 {
			errs = append(errs, "store.redis.db must not be negative")
		}
		if c.Store.Redis.TTL < 0 {
			errs = append(errs, "store.redis.ttl must not be negative")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown store.driver %q", c.Store.Driver))
	}

	if _, err := keymap.Default().WithOverrides(c.Keymap); err != nil {
		errs = append(errs, fmt.Sprintf("keymap: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Level returns the slog level named by LogLevel, or info if it is invalid.
func (c *Config) Level() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Keys builds the default keymap with the configured overrides.
func (c *Config) Keys() (*keymap.Keymap, error) {
	return keymap.Default().WithOverrides(c.Keymap)
}

// OpenStore builds the configured persister. The memory driver returns a nil
// persister. The returned close function is never nil.
func (c *Config) OpenStore(ctx context.Context) (production.Persister, func() error, error) {
	noop := func() error { return nil }

	switch c.Store.Driver {
	case DriverMemory:
		return nil, noop, nil
	case DriverJSON:
		p, err := production.NewJSONPersister(c.Store.Dir)
		if err != nil {
			return nil, noop, err
		}
		return p, noop, nil
	case DriverYAML:
		p, err := production.NewYAMLPersister(c.Store.Dir)
		if err != nil {
			return nil, noop, err
		}
		return p, noop, nil
	case DriverRedis:
		p, err := production.NewRedisPersister(ctx, production.RedisConfig{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
			TTL:      c.Store.Redis.TTL,
		})
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store driver %q", c.Store.Driver)
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.New("logLevel must be debug, info, warn or error")
	}
	return lvl, nil
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
