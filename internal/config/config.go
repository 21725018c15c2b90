// Package config loads chronograph's settings: backend selection and
// its connection settings, default traversal depth, and telemetry
// exporter choice. TOML is the primary on-disk format (following the
// teacher's own internal/formula/parser.go's "TOML preferred" choice
// for structured config), with a secondary YAML path via viper for
// environments that already keep a config.yaml (the teacher's own
// cmd/bd/config.go loads a project's config.yaml through exactly this
// viper.New/SetConfigType/SetConfigFile/ReadInConfig sequence).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config is chronograph's full settings surface.
type Config struct {
	Backend   BackendConfig   `toml:"backend"`
	Graph     GraphConfig     `toml:"graph"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// BackendConfig selects and configures a storage/factory backend.
// Settings is passed through verbatim to factory.New.
type BackendConfig struct {
	Name     string            `toml:"name"` // "memory", "dolt", or "mysql"
	Settings map[string]string `toml:"settings"`
}

// GraphConfig holds default parameters for read-model traversal queries.
type GraphConfig struct {
	DefaultMaxDepth int `toml:"default_max_depth"`
}

// TelemetryConfig selects the obslog exporter.
type TelemetryConfig struct {
	Exporter          string `toml:"exporter"` // "none", "stdout", "otlp"
	CollectorEndpoint string `toml:"collector_endpoint"`
	ServiceName       string `toml:"service_name"`
}

// Default returns the zero-configuration settings: an in-memory
// backend, depth-8 traversals, telemetry off.
func Default() Config {
	return Config{
		Backend:   BackendConfig{Name: "memory"},
		Graph:     GraphConfig{DefaultMaxDepth: 8},
		Telemetry: TelemetryConfig{Exporter: "none"},
	}
}

// LoadTOML reads and decodes a TOML config file at path, starting from
// Default() so unset fields keep their zero-configuration values.
func LoadTOML(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// LoadYAML reads a config.yaml at path via viper, for deployments that
// already standardize on YAML. Missing keys keep Default()'s values.
func LoadYAML(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if name := v.GetString("backend.name"); name != "" {
		cfg.Backend.Name = name
	}
	if settings := v.GetStringMapString("backend.settings"); len(settings) > 0 {
		cfg.Backend.Settings = settings
	}
	if depth := v.GetInt("graph.default_max_depth"); depth > 0 {
		cfg.Graph.DefaultMaxDepth = depth
	}
	if exporter := v.GetString("telemetry.exporter"); exporter != "" {
		cfg.Telemetry.Exporter = exporter
	}
	if endpoint := v.GetString("telemetry.collector_endpoint"); endpoint != "" {
		cfg.Telemetry.CollectorEndpoint = endpoint
	}
	if service := v.GetString("telemetry.service_name"); service != "" {
		cfg.Telemetry.ServiceName = service
	}
	return cfg, nil
}
