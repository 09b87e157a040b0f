// Package config loads runtime configuration for the wiretap CLI: serial
// port defaults, capture directory, and catalog location. Values come from
// an optional JSON config file with environment variables taking precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/plateworks/wiretap/internal/transport"
)

// Config holds all tunable settings. Fields are pointers so that an absent
// value is distinguishable from an explicit zero; unset fields fall back to
// the defaults below.
type Config struct {
	// CaptureDir is where `record` writes capture files by default.
	CaptureDir *string `json:"capture_dir,omitempty" env:"WIRETAP_CAPTURE_DIR"`

	// CatalogPath is the sqlite capture catalog location.
	CatalogPath *string `json:"catalog_path,omitempty" env:"WIRETAP_CATALOG"`

	// Serial port defaults used when flags don't override them.
	BaudRate *int    `json:"baud_rate,omitempty" env:"WIRETAP_BAUD"`
	DataBits *int    `json:"data_bits,omitempty" env:"WIRETAP_DATA_BITS"`
	StopBits *int    `json:"stop_bits,omitempty" env:"WIRETAP_STOP_BITS"`
	Parity   *string `json:"parity,omitempty" env:"WIRETAP_PARITY"`

	// Verbose enables diagnostic logging from the capture layer.
	Verbose *bool `json:"verbose,omitempty" env:"WIRETAP_VERBOSE"`
}

// Load reads the JSON config at path (skipped when path is empty or the file
// does not exist) and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing config file is fine; env and defaults still apply.
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := json.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}

// PortOptions assembles serial options from the config, leaving unset fields
// to transport.Options normalization.
func (c *Config) PortOptions() transport.Options {
	var opts transport.Options
	if c.BaudRate != nil {
		opts.BaudRate = *c.BaudRate
	}
	if c.DataBits != nil {
		opts.DataBits = *c.DataBits
	}
	if c.StopBits != nil {
		opts.StopBits = *c.StopBits
	}
	if c.Parity != nil {
		opts.Parity = *c.Parity
	}
	return opts
}

// Catalog returns the catalog path, or the given fallback when unset.
func (c *Config) Catalog(fallback string) string {
	if c.CatalogPath != nil && *c.CatalogPath != "" {
		return *c.CatalogPath
	}
	return fallback
}

// Dir returns the capture directory, or "." when unset.
func (c *Config) Dir() string {
	if c.CaptureDir != nil && *c.CaptureDir != "" {
		return *c.CaptureDir
	}
	return "."
}
