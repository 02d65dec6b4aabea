/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/mikeb26/gamedayevents/internal"
	"github.com/mikeb26/gamedayevents/internal/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Batch  BatchConfig  `yaml:"batch"`
	Output OutputConfig `yaml:"output"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

type BatchConfig struct {
	Root    string `yaml:"root"`    // directory holding gid_* game directories
	Workers int    `yaml:"workers"` // games processed concurrently
	// FinalOnly restricts batch runs to games the scoreboard marks final
	FinalOnly bool `yaml:"final_only"`
}

type OutputConfig struct {
	Format string `yaml:"format"` // "jsonl" or "text"
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "console"},
		Batch:  BatchConfig{Workers: runtime.NumCPU()},
		Output: OutputConfig{Format: "jsonl"},
	}
}

// Load reads the YAML file at configPath over the defaults, then applies
// GDEVENTS_* environment overrides. An empty path yields defaults plus
// environment.
func Load(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := lookup("BATCH_ROOT"); ok {
		c.Batch.Root = v
	}
	if v, ok := lookup("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sWORKERS %q: %w", internal.EnvPrefix, v,
				err)
		}
		c.Batch.Workers = n
	}
	if v, ok := lookup("OUTPUT_FORMAT"); ok {
		c.Output.Format = v
	}

	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(internal.EnvPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Validate checks the values a run depends on.
func (c *Config) Validate() error {
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got %d",
			c.Batch.Workers)
	}
	switch c.Output.Format {
	case "jsonl", "text":
	default:
		return fmt.Errorf("output.format must be jsonl or text, got %q",
			c.Output.Format)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q",
			c.Log.Format)
	}

	return nil
}

// LoggerOptions maps the log section onto logger.Options.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  c.Log.Level,
		Format: c.Log.Format,
	}
}
