package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chronograph-db/chronograph/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, "memory", cfg.Backend.Name)
	require.Equal(t, 8, cfg.Graph.DefaultMaxDepth)
	require.Equal(t, "none", cfg.Telemetry.Exporter)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chronograph.toml")
	contents := `
[backend]
name = "dolt"
[backend.settings]
data_dir = "/var/lib/chronograph"

[graph]
default_max_depth = 4

[telemetry]
exporter = "stdout"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.LoadTOML(path)
	require.NoError(t, err)
	require.Equal(t, "dolt", cfg.Backend.Name)
	require.Equal(t, "/var/lib/chronograph", cfg.Backend.Settings["data_dir"])
	require.Equal(t, 4, cfg.Graph.DefaultMaxDepth)
	require.Equal(t, "stdout", cfg.Telemetry.Exporter)
}

func TestLoadYAMLMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := config.LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "backend:\n  name: mysql\ngraph:\n  default_max_depth: 12\ntelemetry:\n  exporter: otlp\n  collector_endpoint: localhost:4318\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.LoadYAML(path)
	require.NoError(t, err)
	require.Equal(t, "mysql", cfg.Backend.Name)
	require.Equal(t, 12, cfg.Graph.DefaultMaxDepth)
	require.Equal(t, "otlp", cfg.Telemetry.Exporter)
	require.Equal(t, "localhost:4318", cfg.Telemetry.CollectorEndpoint)
}
