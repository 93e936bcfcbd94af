// Package logging provides the console logger and the JSON Lines issue
// logs written by check runs.
//
// Console output goes through charmbracelet/log. Issue events are written
// one JSON object per line, either to stdout (--format json) or to a
// per-run file under the configured log directory.
package logging
