package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// envPrefix prefixes every environment variable the loader reads.
const envPrefix = "TASKMASTER_"

// loadFromEnv overrides config from TASKMASTER_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(name, field string, target *string) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*target = v
			set(field)
		}
	}
	flag := func(name, field string, target *bool) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*target = boolFromString(v)
			set(field)
		}
	}

	str("PROJECT_DIR", "project_dir", &cfg.ProjectDir)
	str("SCHEMA", "schema_file", &cfg.SchemaFile)
	str("STATE_SCHEMA", "state_schema_file", &cfg.StateSchemaFile)
	str("LOG_DIR", "log_dir", &cfg.LogDir)
	flag("BUNDLED_SCHEMA", "bundled_schema", &cfg.BundledSchema)
	if v := os.Getenv(envPrefix + "FORMAT"); v != "" {
		cfg.Format = Format(v)
		set("format")
	}
	if v := os.Getenv(envPrefix + "CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCONCURRENCY: %w", envPrefix, err)
		}
		cfg.Concurrency = n
		set("concurrency")
	}

	// Logging configuration
	str("LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("LOG_FORMAT", "log_format", &cfg.LogFormat)
	flag("LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	flag("LOG_CALLER", "log_caller", &cfg.LogCaller)
	return nil
}

// boolFromString reads common truthy spellings.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on", "y":
		return true
	}
	return false
}
