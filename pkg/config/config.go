// Package config loads node configuration from the environment and
// risk-parameter profiles from YAML.
package config

import "os"

// Config holds node configuration.
type Config struct {
	LogLevel     string
	DatabasePath string
	ProfilesDir  string
	Profile      string
	OTLPEndpoint string
	Telemetry    bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	dbPath := os.Getenv("ARS_DB_PATH")
	if dbPath == "" {
		dbPath = "ars.db"
	}

	profilesDir := os.Getenv("ARS_PROFILES_DIR")
	if profilesDir == "" {
		profilesDir = "profiles"
	}

	profile := os.Getenv("ARS_PROFILE")
	if profile == "" {
		profile = "default"
	}

	otlpEndpoint := os.Getenv("ARS_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	telemetry := os.Getenv("ARS_TELEMETRY") != "false"

	return &Config{
		LogLevel:     logLevel,
		DatabasePath: dbPath,
		ProfilesDir:  profilesDir,
		Profile:      profile,
		OTLPEndpoint: otlpEndpoint,
		Telemetry:    telemetry,
	}
}
