// Package config loads CLI and server settings from an optional YAML file,
// then applies TROVE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings.
type Config struct {
	DataDir      string `yaml:"data_dir" env:"TROVE_DATA_DIR"`
	WorldSeed    uint64 `yaml:"world_seed" env:"TROVE_WORLD_SEED"`
	LogLevel     string `yaml:"log_level" env:"TROVE_LOG_LEVEL"`
	LogJSON      bool   `yaml:"log_json" env:"TROVE_LOG_JSON"`
	Concurrency  int    `yaml:"concurrency" env:"TROVE_CONCURRENCY"`
	SequenceFile string `yaml:"sequence_file" env:"TROVE_SEQUENCE_FILE"`
	Redis        Redis  `yaml:"redis"`
	Server       Server `yaml:"server"`
}

// Redis configures the shared random sequence store. An empty Addr falls
// back to SequenceFile, and to memory when that is empty too.
type Redis struct {
	Addr     string `yaml:"addr" env:"TROVE_REDIS_ADDR"`
	Password string `yaml:"password" env:"TROVE_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"TROVE_REDIS_DB"`
	Prefix   string `yaml:"prefix" env:"TROVE_REDIS_PREFIX"`
}

// Server configures the HTTP listener of the serve command.
type Server struct {
	Addr string `yaml:"addr" env:"TROVE_METRICS_ADDR"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataDir:  ".",
		LogLevel: "info",
		Server:   Server{Addr: ":2112"},
	}
}

// Load reads path, if non-empty and present, over the defaults and then
// applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Concurrency < 0 {
		return cfg, fmt.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	return cfg, nil
}
