// Package config loads runtime settings from defaults, an optional YAML file,
// an optional .env file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultDir     = ".todos"
	configFileName = "config.yaml"

	// DefaultKey is the storage key holding the todo list.
	DefaultKey = "todoList"
)

// Config aggregates all runtime settings.
type Config struct {
	Storage     StorageConfig `yaml:"storage"`
	Logger      LoggerConfig  `yaml:"logger"`
	Watch       WatchConfig   `yaml:"watch"`
	SeedWelcome bool          `yaml:"seed_welcome"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	Key     string `yaml:"key"`
}

type LoggerConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "file",
			Path:    defaultPath(),
			Key:     DefaultKey,
		},
		Logger: LoggerConfig{
			Level:    "warn",
			Encoding: "console",
		},
		Watch: WatchConfig{
			Interval: 2 * time.Second,
		},
		SeedWelcome: true,
	}
}

// Load builds the configuration. An empty path looks for config.yaml in the
// default data directory and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.Storage.Path, configFileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	_ = godotenv.Load(".env")
	applyEnv(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Storage.Backend = getString("TODOS_BACKEND", cfg.Storage.Backend)
	cfg.Storage.Path = getString("TODOS_PATH", cfg.Storage.Path)
	cfg.Storage.Key = getString("TODOS_KEY", cfg.Storage.Key)
	cfg.Logger.Level = getString("TODOS_LOG_LEVEL", cfg.Logger.Level)
	cfg.Logger.Encoding = getString("TODOS_LOG_ENCODING", cfg.Logger.Encoding)
	cfg.Watch.Interval = getDuration("TODOS_WATCH_INTERVAL", cfg.Watch.Interval)
	cfg.SeedWelcome = getBool("TODOS_SEED_WELCOME", cfg.SeedWelcome)
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDir
	}
	return filepath.Join(home, defaultDir)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
