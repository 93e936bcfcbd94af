// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskmaster/taskmaster.toml or OS-specific config directory)
// 3. Project config file (taskmaster.toml or .taskmaster.toml in the working directory)
// 4. Environment variables (TASKMASTER_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.taskmaster/taskmaster.toml (preferred)
// - Windows: %APPDATA%\taskmaster\taskmaster.toml
// - macOS: ~/Library/Application Support/taskmaster/taskmaster.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskmaster/taskmaster.toml or ~/.config/taskmaster/taskmaster.toml
//
// Project-level config locations (overrides user config):
// - ./taskmaster.toml (preferred)
// - ./.taskmaster.toml
package config
