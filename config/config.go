// Package config loads udmine's YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/udmine/ai"
	"gopkg.in/yaml.v3"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Config is the complete udmine configuration.
type Config struct {
	DataRoot  string     `yaml:"data_root"`
	User      string     `yaml:"user"`
	Cache     Cache      `yaml:"cache"`
	Embedding *ai.Config `yaml:"embedding"`
	Mining    Mining     `yaml:"mining"`
}

// Cache selects the embedding cache backend.
type Cache struct {
	Backend string `yaml:"backend"`
}

// Mining tunes concurrency and category selection.
type Mining struct {
	PoolSize    int      `yaml:"pool_size"`
	Parallelism int      `yaml:"parallelism"`
	Burst       int      `yaml:"burst"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DataRoot:  ".",
		Cache:     Cache{Backend: BackendFile},
		Embedding: ai.DefaultConfig(),
		Mining:    Mining{Burst: 1},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Embedding == nil {
		cfg.Embedding = ai.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, normalizing it in place.
func (c *Config) Validate() error {
	if c.DataRoot == "" {
		return errors.New("config: data_root is required")
	}
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = BackendFile
	case BackendFile, BackendBadger:
	default:
		return fmt.Errorf("config: cache.backend must be %s or %s, got %q", BackendFile, BackendBadger, c.Cache.Backend)
	}
	if c.Mining.PoolSize < 0 || c.Mining.Parallelism < 0 || c.Mining.Burst < 0 {
		return errors.New("config: mining sizes cannot be negative")
	}
	if c.Embedding == nil {
		return errors.New("config: embedding section is required")
	}
	return c.Embedding.Validate()
}
