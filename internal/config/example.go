package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskmaster configuration file
# Values can be overridden by TASKMASTER_* environment variables or CLI flags

# Project directory containing .taskmaster (supports ~ expansion)
project_dir = "."

# Extra JSON Schemas checked on top of the built-in rules
# (relative to project_dir)
# schema_file = "schemas/tasks.strict.json"
# state_schema_file = "schemas/state.strict.json"

# Directory for per-run JSONL issue logs (empty disables them)
# log_dir = "~/.taskmaster/logs"

# Also check documents against the bundled JSON Schemas
bundled_schema = false

# Projects checked in parallel by "taskmaster check dir1 dir2 ..."
concurrency = 4

# Report format: text or json
format = "text"

# Logging
log_level = "info"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
