package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.ServerAddress)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "http://localhost:9000", cfg.GatewayBaseURL)
	assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, 5*time.Minute, cfg.GatewayCacheTTL)
	assert.True(t, cfg.EnableCORS)
	assert.True(t, cfg.EnableMetrics)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_address: \":9100\"\ntimezone: \"Europe/Berlin\"\nenable_cors: false\n",
	), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.ServerAddress)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.False(t, cfg.EnableCORS)
	assert.Equal(t, "./monitored", cfg.MonitoredDir, "unset file keys keep their defaults")
}

func TestLoadConfigEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_address: \":9100\"\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDRESS", ":9200")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("ENABLE_METRICS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9200", cfg.ServerAddress)
	assert.Equal(t, 3*time.Second, cfg.GatewayTimeout)
	assert.False(t, cfg.EnableMetrics)
}

func TestLoadConfigDurationInSeconds(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("GATEWAY_TIMEOUT", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.GatewayTimeout, "bare integers are read as seconds")
}

func TestLoadConfigRejectsBadTimezone(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TRACKER_TIMEZONE", "Mars/Olympus_Mons")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRACKER_TIMEZONE")
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.GatewayTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.GatewayBaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestLocation(t *testing.T) {
	cfg := defaultConfig()
	cfg.Timezone = "Europe/Berlin"
	loc := cfg.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "Europe/Berlin", loc.String())
}
