// Package config loads vstyle configuration. Defaults come from an embedded
// template; a user file overrides them field by field.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"

	"github.com/recera/vango-styles/pkg/styling"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	StylingConfig struct {
		SheetMode string   `yaml:"sheet_mode" validate:"oneof=text typed"`
		Unitless  []string `yaml:"unitless" validate:"dive,required"`
	}

	ServerConfig struct {
		Addr     string `yaml:"addr" validate:"required"`
		LivePath string `yaml:"live_path" validate:"required,startswith=/"`
		Metrics  bool   `yaml:"metrics"`
	}

	WatchConfig struct {
		Debounce   time.Duration `yaml:"debounce" validate:"gte=0"`
		Extensions []string      `yaml:"extensions" validate:"dive,required,startswith=."`
	}

	LoggerConfig struct {
		Level string `yaml:"level" validate:"required,oneof=none debug normal"`
	}

	LoggingConfig struct {
		Console LoggerConfig `yaml:"console"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Styling StylingConfig `yaml:"styling"`
		Server  ServerConfig  `yaml:"server"`
		Watch   WatchConfig   `yaml:"watch"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Default returns the built-in configuration
func Default() (*Config, error) {
	data, err := gencfg.Process(ConfigTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, true)
	if err != nil {
		return nil, invalid(err)
	}
	return cfg, nil
}

// Load reads the configuration file at path on top of the defaults. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil || path == "" {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, cfg)
}

// Parse applies data on top of base, which is modified
func Parse(data []byte, base *Config) (*Config, error) {
	cfg, err := unmarshalConfig(data, base, true)
	if err != nil {
		return nil, invalid(err)
	}
	return cfg, nil
}

// Dump renders cfg as YAML
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// SheetMode returns the configured sheet mode
func (c *Config) SheetMode() (styling.Mode, error) {
	return styling.ParseMode(c.Styling.SheetMode)
}

// Units returns the unit rules for the configured unitless properties
func (c *Config) Units() *styling.Units {
	return styling.NewUnits(c.Styling.Unitless...)
}

func invalid(err error) error {
	return &styling.ConfigurationError{What: "invalid configuration: " + err.Error()}
}
