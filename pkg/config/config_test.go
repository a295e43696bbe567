package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ars-protocol/ars-core/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ARS_DB_PATH", "")
	t.Setenv("ARS_PROFILES_DIR", "")
	t.Setenv("ARS_PROFILE", "")
	t.Setenv("ARS_OTLP_ENDPOINT", "")
	t.Setenv("ARS_TELEMETRY", "")

	cfg := config.Load()

	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "ars.db", cfg.DatabasePath)
	assert.Equal(t, "profiles", cfg.ProfilesDir)
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.True(t, cfg.Telemetry)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ARS_DB_PATH", "/var/lib/ars/state.db")
	t.Setenv("ARS_PROFILES_DIR", "/etc/ars/profiles")
	t.Setenv("ARS_PROFILE", "conservative")
	t.Setenv("ARS_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("ARS_TELEMETRY", "false")

	cfg := config.Load()

	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "/var/lib/ars/state.db", cfg.DatabasePath)
	assert.Equal(t, "/etc/ars/profiles", cfg.ProfilesDir)
	assert.Equal(t, "conservative", cfg.Profile)
	assert.Equal(t, "collector:4317", cfg.OTLPEndpoint)
	assert.False(t, cfg.Telemetry)
}
