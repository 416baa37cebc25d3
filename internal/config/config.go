// Package config loads runtime settings from defaults, an optional YAML file
// and SNOOZE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SNOOZE_"

// Credential backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	API         APIConfig         `yaml:"api"         envPrefix:"API_"`
	Log         LogConfig         `yaml:"log"         envPrefix:"LOG_"`
	Credentials CredentialsConfig `yaml:"credentials" envPrefix:"CREDENTIALS_"`
	Server      ServerConfig      `yaml:"server"      envPrefix:"SERVER_"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"TIMEOUT"` // 0 = no timeout
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LEVEL"` // debug | info | warn | error
	Pretty bool   `yaml:"pretty" env:"PRETTY"`
}

type CredentialsConfig struct {
	Backend    string        `yaml:"backend"    env:"BACKEND"` // file | redis | memory
	Dir        string        `yaml:"dir"        env:"DIR"`
	Passphrase string        `yaml:"passphrase" env:"PASSPHRASE"`
	RedisURL   string        `yaml:"redis_url"  env:"REDIS_URL"`
	RedisKey   string        `yaml:"redis_key"  env:"REDIS_KEY"`
	TTL        time.Duration `yaml:"ttl"        env:"TTL"`
}

type ServerConfig struct {
	Listen          string        `yaml:"listen"           env:"LISTEN"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://hack-or-snooze-v3.herokuapp.com",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Credentials: CredentialsConfig{
			Backend:  BackendFile,
			Dir:      DefaultHome(),
			RedisKey: "snooze:credentials:",
		},
		Server: ServerConfig{
			Listen:          ":3000",
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// DefaultHome is ~/.hackorsnooze, or a relative directory when the home
// directory cannot be determined.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hackorsnooze"
	}
	return filepath.Join(home, ".hackorsnooze")
}

// Load builds the configuration. An empty path falls back to config.yaml in
// the default home if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.Credentials.Dir, "config.yaml")
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0, got %v", c.API.Timeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	switch c.Credentials.Backend {
	case BackendFile:
		if c.Credentials.Dir == "" {
			return errors.New("credentials.dir is required for the file backend")
		}
	case BackendRedis:
		if c.Credentials.RedisURL == "" {
			return errors.New("credentials.redis_url is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("credentials.backend must be file, redis or memory; got %q", c.Credentials.Backend)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}
