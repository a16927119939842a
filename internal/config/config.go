// Logger settings from JSON config files and the process environment
package config

import (
	"deduplog/internal/global"
	"deduplog/pkg/severity"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Resolved logger settings
type Settings struct {
	AppName       string
	Level         string
	DedupTTL      int64 // milliseconds, -1 disables suppression
	DedupCapacity int
}

// Settings used when nothing is configured
func Defaults() (settings Settings) {
	settings = Settings{
		AppName:       global.DefaultAppName,
		Level:         global.DefaultLevel,
		DedupTTL:      global.DefaultDedupTTL,
		DedupCapacity: global.DefaultDedupCapacity,
	}
	return
}

// Loads JSON config from file
func LoadConfig(path string) (cfg global.LoggerConfig, err error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file: %w", err)
		return
	}

	err = json.Unmarshal(configFile, &cfg)
	if err != nil {
		err = fmt.Errorf("invalid config syntax in '%s': %w", path, err)
		return
	}
	return
}

// Applies JSON config values over base settings
func (settings Settings) Apply(cfg global.LoggerConfig) (merged Settings) {
	merged = settings
	if cfg.AppName != "" {
		merged.AppName = cfg.AppName
	}
	if cfg.Level != "" {
		merged.Level = cfg.Level
	}
	if cfg.DedupTTL != nil {
		merged.DedupTTL = *cfg.DedupTTL
	}
	if cfg.DedupCapacity != 0 {
		merged.DedupCapacity = cfg.DedupCapacity
	}
	merged.setDefaults()
	return
}

// Applies environment variables over base settings.
// lookup has the signature of os.LookupEnv; unset or unusable values keep the base value.
func FromEnvironment(lookup func(string) (string, bool), base Settings) (settings Settings) {
	settings = base

	if value, ok := lookup(global.EnvAppName); ok && value != "" {
		settings.AppName = value
	}
	if value, ok := lookup(global.EnvLogLevel); ok && severity.Index(value) >= 0 {
		settings.Level = value
	}
	if value, ok := lookup(global.EnvDedupTTL); ok {
		ttl, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err == nil {
			settings.DedupTTL = ttl
		}
	}
	if value, ok := lookup(global.EnvDedupCapacity); ok {
		capacity, err := strconv.Atoi(strings.TrimSpace(value))
		if err == nil && capacity > 0 {
			settings.DedupCapacity = capacity
		}
	}

	settings.setDefaults()
	return
}

// Sets defaults for any missing/invalid values
func (settings *Settings) setDefaults() {
	if settings.AppName == "" {
		settings.AppName = global.DefaultAppName
	}
	if severity.Index(settings.Level) < 0 {
		settings.Level = global.DefaultLevel
	} else {
		settings.Level = strings.ToLower(strings.TrimSpace(settings.Level))
	}
	if settings.DedupTTL < global.DisabledDedupTTL {
		settings.DedupTTL = global.DefaultDedupTTL
	}
	if settings.DedupCapacity <= 0 {
		settings.DedupCapacity = global.DefaultDedupCapacity
	}
}
