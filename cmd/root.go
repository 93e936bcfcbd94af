// Package cmd implements the CLI command structure for taskmaster.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/taskmaster-go/internal/config"
	"github.com/nibzard/taskmaster-go/internal/project"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrIssues is returned when a checked project has validation issues. The
// issues themselves have already been reported.
var ErrIssues = errors.New("validation issues found")

// Output destinations, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the taskmaster CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskmaster", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No subcommand means check the configured project.
	subcommand := "check"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "check":
		return checkCommand(ctx, cfg, remainingArgs)
	case "tasks", "ls":
		return tasksCommand(cfg, remainingArgs)
	case "deps":
		return depsCommand(cfg, remainingArgs)
	case "normalize":
		return normalizeCommand(cfg, remainingArgs)
	case "schema":
		return schemaCommand(remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "logs", "tail":
		return logsCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// projectOptions maps configuration onto loader options.
func projectOptions(cfg *config.Config) project.Options {
	return project.Options{
		SchemaPath:      cfg.SchemaFile,
		StateSchemaPath: cfg.StateSchemaFile,
		Bundled:         cfg.BundledSchema,
		Concurrency:     cfg.Concurrency,
	}
}

// openProject loads the configured project and fails with ErrIssues when
// either document is invalid.
func openProject(cfg *config.Config) (*project.Project, error) {
	p, err := project.Open(cfg.ProjectDir, projectOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening project: %w", err)
	}
	if !p.OK() {
		if err := reportProjects(cfg, cfg.Format, []project.Outcome{{Dir: cfg.ProjectDir, Project: p}}); err != nil {
			return nil, err
		}
		return nil, ErrIssues
	}
	return p, nil
}

// resolveDir makes dir absolute against the configured project directory.
func resolveDir(cfg *config.Config, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Join(cfg.ProjectDir, dir)
	}
	return abs
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "taskmaster version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskmaster - validate and browse Task Master project files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskmaster [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  check [dirs...]      Validate tasks and state files (default command)")
	fmt.Fprintln(w, "  tasks                List tasks of a valid project")
	fmt.Fprintln(w, "  deps <id>            List tasks depending on a task or subtask id")
	fmt.Fprintln(w, "  normalize            Print or write the normalized documents")
	fmt.Fprintln(w, "  schema tasks|state   Print a bundled JSON Schema")
	fmt.Fprintln(w, "  tui                  Launch terminal UI")
	fmt.Fprintln(w, "  logs                 Show the latest check run log")
	fmt.Fprintln(w, "  config               Show effective configuration")
	fmt.Fprintln(w, "  version              Show version information")
	fmt.Fprintln(w, "  help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Report format (text, json)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tasks Options:")
	fmt.Fprintln(w, "  -tag string        Only tasks of this tag")
	fmt.Fprintln(w, "  -status string     Comma-separated statuses")
	fmt.Fprintln(w, "  -priority string   Comma-separated priorities")
	fmt.Fprintln(w, "  -sort string       Sort field (id, title, status, priority)")
	fmt.Fprintln(w, "  -order string      Sort order (asc, desc)")
	fmt.Fprintln(w, "  -ready             Only tasks whose dependencies are done")
	fmt.Fprintln(w, "  -json              Print tasks as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Normalize Options:")
	fmt.Fprintln(w, "  -write             Write normalized files back in place")
	fmt.Fprintln(w, "  -state             Use the state file instead of the tasks file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options:")
	fmt.Fprintln(w, "  -n int             Number of lines to show (0 = all)")
}

// splitAndTrim splits a string by sep and trims whitespace from each part.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
