package config

import "flag"

// flagToSource maps flag names to source field names.
var flagToSource = map[string]string{
	"project":        "project_dir",
	"schema":         "schema_file",
	"state-schema":   "state_schema_file",
	"log-dir":        "log_dir",
	"bundled-schema": "bundled_schema",
	"concurrency":    "concurrency",
	"format":         "format",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// formatValue adapts Format to flag.Value.
type formatValue struct{ f *Format }

func (v formatValue) String() string {
	if v.f == nil {
		return ""
	}
	return string(*v.f)
}

func (v formatValue) Set(s string) error {
	*v.f = Format(s)
	return nil
}

// RegisterFlags defines the config flags on fs, bound to cfg.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ProjectDir, "project", cfg.ProjectDir, "Project directory containing .taskmaster")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Extra JSON Schema applied to the tasks file")
	fs.StringVar(&cfg.StateSchemaFile, "state-schema", cfg.StateSchemaFile, "Extra JSON Schema applied to the state file")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for per-run JSONL issue logs")
	fs.BoolVar(&cfg.BundledSchema, "bundled-schema", cfg.BundledSchema, "Also check documents against the bundled JSON Schemas")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Projects checked in parallel")
	fs.Var(formatValue{&cfg.Format}, "format", "Report format (text, json)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
}

// parseFlags registers the config flags on fs, which may already carry
// command-specific flags, and parses args. If sources is non-nil, it
// tracks which fields were set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}
	RegisterFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagToSource[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
