// Package config loads and validates meteofetch configuration.
//
// Every field has a default, so a missing config file yields the same
// behavior as the stock deployment: fetch the MeteoSwiss 10-minute global
// radiation CSV every ten minutes into data/input.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the stock deployment.
const (
	DefaultURL            = "https://data.geo.admin.ch/ch.meteoschweiz.messwerte-globalstrahlung-10min/ch.meteoschweiz.messwerte-globalstrahlung-10min_en.csv"
	DefaultMasterPath     = "data/input/master_global_radiation.csv"
	DefaultInputDir       = "data/input"
	DefaultLogPath        = "data/global_radiation_fetch_logs.txt"
	DefaultLedgerPath     = "data/meteofetch.db"
	DefaultSnapshotPrefix = "global_radiation_10min_"
	DefaultInterval       = 600 * time.Second
	DefaultTimeout        = 60 * time.Second
	DefaultTrailerLines   = 4
	DefaultMaxBodyBytes   = 64 << 20
)

// Config holds everything the ingestion loop needs.
// The json tags name the fields for schema validation.
type Config struct {
	// URL is the endpoint fetched once per cycle.
	URL string `yaml:"url" json:"url"`

	// MasterPath is the cumulative deduplicated dataset.
	MasterPath string `yaml:"master_path" json:"master_path"`

	// InputDir receives the raw and cleaned snapshot of every cycle.
	InputDir string `yaml:"input_dir" json:"input_dir"`

	// LogPath is the append-only log file.
	LogPath string `yaml:"log_path" json:"log_path"`

	// LedgerPath is the SQLite cycle ledger. Empty disables the ledger.
	LedgerPath string `yaml:"ledger_path" json:"ledger_path"`

	// SnapshotPrefix is prepended to the timestamp in snapshot filenames.
	SnapshotPrefix string `yaml:"snapshot_prefix" json:"snapshot_prefix"`

	// Interval is the sleep between the end of one cycle and the start of the next.
	Interval time.Duration `yaml:"interval" json:"interval"`

	// Timeout bounds a single HTTP request.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// TrailerLines is the number of non-tabular lines stripped from the end of each snapshot.
	TrailerLines int `yaml:"trailer_lines" json:"trailer_lines"`

	// ValidateTrailer rejects snapshots whose trailer looks like data rows.
	ValidateTrailer bool `yaml:"validate_trailer" json:"validate_trailer"`

	// MaxBodyBytes caps the response body size.
	MaxBodyBytes int64 `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		URL:            DefaultURL,
		MasterPath:     DefaultMasterPath,
		InputDir:       DefaultInputDir,
		LogPath:        DefaultLogPath,
		LedgerPath:     DefaultLedgerPath,
		SnapshotPrefix: DefaultSnapshotPrefix,
		Interval:       DefaultInterval,
		Timeout:        DefaultTimeout,
		TrailerLines:   DefaultTrailerLines,
		MaxBodyBytes:   DefaultMaxBodyBytes,
	}
}

// Load reads a YAML config file on top of the defaults.
// An empty path returns the defaults. Unknown fields are rejected.
func Load(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, Validate(cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
