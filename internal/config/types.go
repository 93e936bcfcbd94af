package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultProjectDir  = "."
	DefaultFormat      = FormatText
	DefaultConcurrency = 4
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Format selects how issue reports are printed.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds the full configuration for taskmaster.
type Config struct {
	// Paths
	ProjectDir      string `toml:"project_dir"`
	SchemaFile      string `toml:"schema_file"`
	StateSchemaFile string `toml:"state_schema_file"`
	// LogDir receives one JSONL issue log per check run. Empty disables
	// run logs.
	LogDir string `toml:"log_dir"`

	// Validation
	BundledSchema bool `toml:"bundled_schema"`
	Concurrency   int  `toml:"concurrency"`

	// Output
	Format Format `toml:"format"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"project_dir",
		"schema_file",
		"state_schema_file",
		"log_dir",
		"bundled_schema",
		"concurrency",
		"format",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
