// Package config loads the YAML configuration shared by the commands.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/goccy/go-yaml"

	"rsalpha/internal/ctxlog"
	"rsalpha/internal/journal"
	"rsalpha/internal/keys"
)

type Config struct {
	Cipher  keys.Params    `yaml:"cipher"`
	Workers int            `yaml:"workers"`
	LogDir  string         `yaml:"logDir"`
	Debug   bool           `yaml:"debug"`
	Journal journal.Config `yaml:"journal"`
}

// Default is used when no config file is given.
func Default() Config {
	var c Config
	c.fill()
	return c
}

func (c *Config) fill() {
	if c.Cipher == (keys.Params{}) {
		c.Cipher = keys.DefaultParams()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

func (c Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Load reads filename strictly. Unknown fields are errors. An absent cipher
// section or worker count falls back to the defaults.
func Load(ctx context.Context, filename string) (Config, error) {
	if filename == "" {
		return Default(), nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return Config{}, fmt.Errorf("open %q: %w", filename, err)
	}
	defer ctxlog.Close(ctx, "config file", file)

	dec := yaml.NewDecoder(file, yaml.Strict())

	var config Config
	err = dec.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("yaml: %w", err)
	}

	config.fill()
	return config, nil
}
