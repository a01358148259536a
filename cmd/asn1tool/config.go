package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/davidjspooner/asn1map/pkg/asn1"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1schema"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Rules    string            `yaml:"rules"`
	MaxDepth int               `yaml:"max_depth"`
	Listen   string            `yaml:"listen"`
	LogLevel string            `yaml:"log_level"`
	Schemas  map[string]string `yaml:"schemas"`

	// dir is the directory of the config file, schema paths are relative to it
	dir string
}

func DefaultConfig() *Config {
	return &Config{
		Rules:    "ber",
		MaxDepth: asn1binary.DefaultMaxDepth,
		Listen:   ":8001",
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path returns
// the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d := yaml.NewDecoder(f)
	d.KnownFields(true)
	err = d.Decode(config)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", configPath, err)
	}
	config.dir = filepath.Dir(configPath)
	return config, nil
}

func (c *Config) Decoder() (*asn1binary.Decoder, error) {
	rules, err := asn1binary.ParseRules(c.Rules)
	if err != nil {
		return nil, err
	}
	if c.MaxDepth < 0 {
		return nil, fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	d := asn1.NewDecoder(rules)
	d.MaxDepth = c.MaxDepth
	return d, nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

// SchemaNames returns the configured schema names in sorted order.
func (c *Config) SchemaNames() []string {
	names := make([]string, 0, len(c.Schemas))
	for name := range c.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadSchemas loads every configured schema document.
func (c *Config) LoadSchemas() (map[string]asn1schema.Schema, error) {
	schemas := make(map[string]asn1schema.Schema, len(c.Schemas))
	for _, name := range c.SchemaNames() {
		path := c.Schemas[name]
		if !filepath.IsAbs(path) && c.dir != "" {
			path = filepath.Join(c.dir, path)
		}
		s, err := asn1schema.Load(path)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		schemas[name] = s
	}
	return schemas, nil
}
