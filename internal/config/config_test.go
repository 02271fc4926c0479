package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "https://hairfycombr.uazapi.com", cfg.Gateway.BaseURL)
	assert.Equal(t, "/send/text", cfg.Gateway.SendPath)
	assert.Equal(t, "55", cfg.Notify.CountryCode)
	assert.Equal(t, "Endereço não informado", cfg.Notify.DefaultAddress)
	assert.Equal(t, time.Second, cfg.Sweep.Interval)
	assert.Equal(t, []string{"agendado", "confirmado"}, cfg.Sweep.Statuses)
	assert.False(t, cfg.ClickHouse.Enabled)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sweep:\n  interval: 2s\ndatabase:\n  driver: postgres\n"), 0o600))

	t.Setenv("NOTIFIER_GATEWAY_BASE_URL", "http://gateway.local")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Sweep.Interval)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "http://gateway.local", cfg.Gateway.BaseURL)
	// untouched keys keep their defaults
	assert.Equal(t, "/instance/status", cfg.Gateway.StatusPath)
}

func TestSweepConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, SweepConfig{}.Location())
	assert.Equal(t, time.UTC, SweepConfig{Timezone: "Nowhere/Invalid"}.Location())
}
