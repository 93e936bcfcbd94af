package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nibzard/taskmaster-go/internal/config"
	"github.com/nibzard/taskmaster-go/internal/logging"
	"github.com/nibzard/taskmaster-go/internal/project"
	"github.com/nibzard/taskmaster-go/internal/ui"
)

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskmaster tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	interval := fs.Duration("interval", 2*time.Second, "Reload interval")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts := projectOptions(cfg)
	load := func() (*project.Project, error) {
		return project.Open(cfg.ProjectDir, opts)
	}
	return ui.RunTUI(ctx, load, ui.WithRefreshInterval(*interval))
}

// logsCommand prints the latest run log of the configured project.
func logsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskmaster logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.LogDir == "" {
		return fmt.Errorf("no log directory configured (set log_dir or --log-dir)")
	}

	logDir, err := logging.RunLogDir(cfg.LogDir, cfg.ProjectDir)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.LatestRunLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}
	return logging.Tail(stdout, logPath, *n)
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("taskmaster config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	values := []struct {
		name  string
		value any
	}{
		{"project_dir", cfg.ProjectDir},
		{"schema_file", cfg.SchemaFile},
		{"state_schema_file", cfg.StateSchemaFile},
		{"log_dir", cfg.LogDir},
		{"bundled_schema", cfg.BundledSchema},
		{"concurrency", cfg.Concurrency},
		{"format", cfg.Format},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
	}
	if file := cws.ConfigFile(); file != "" {
		fmt.Fprintf(stdout, "Config file: %s\n\n", file)
	} else {
		fmt.Fprintln(stdout, "Config file: (none)")
		fmt.Fprintln(stdout)
	}
	for _, v := range values {
		fmt.Fprintf(stdout, "%-18s = %-30v (%s)\n", v.name, v.value, cws.Sources[v.name])
	}
	return nil
}
