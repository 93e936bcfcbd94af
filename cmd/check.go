package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nibzard/taskmaster-go/internal/config"
	"github.com/nibzard/taskmaster-go/internal/logging"
	"github.com/nibzard/taskmaster-go/internal/project"
)

// checkCommand validates one or more project directories.
func checkCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskmaster check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", string(cfg.Format), "Report format (text, json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := parseFormat(*format)
	if err != nil {
		return err
	}

	dirs := []string{cfg.ProjectDir}
	if fs.NArg() > 0 {
		dirs = dirs[:0]
		for _, dir := range fs.Args() {
			dirs = append(dirs, resolveDir(cfg, dir))
		}
	}

	outcomes, err := project.CheckAll(ctx, dirs, projectOptions(cfg))
	if err != nil {
		return err
	}
	if err := reportProjects(cfg, f, outcomes); err != nil {
		return err
	}
	for _, o := range outcomes {
		if o.Err != nil || !o.Project.OK() {
			return ErrIssues
		}
	}
	return nil
}

func parseFormat(s string) (config.Format, error) {
	switch f := config.Format(s); f {
	case config.FormatText, config.FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q (want text or json)", s)
}

// reportProjects writes the events of every outcome to the console and, when
// a log directory is configured, to one run log per project.
func reportProjects(cfg *config.Config, format config.Format, outcomes []project.Outcome) error {
	var console logging.EventWriter
	if format == config.FormatJSON {
		console = logging.NewJSONLWriter(stdout)
	} else {
		console = logging.NewConsoleWriter(logging.NewConsoleFromConfig(stdout, cfg))
	}

	now := time.Now().UTC()
	for _, o := range outcomes {
		var events []logging.Event
		if o.Err != nil {
			events = []logging.Event{logging.ErrorEvent(o.Dir, o.Err, now)}
		} else {
			events = logging.ReportEvents(o.Dir, o.Project, now)
		}

		writers := logging.MultiWriter{console}
		var runLog *logging.RunLog
		if cfg.LogDir != "" {
			rl, err := logging.NewRunLog(cfg.LogDir, o.Dir)
			if err != nil {
				return fmt.Errorf("creating run log: %w", err)
			}
			runLog = rl
			writers = append(writers, runLog)
		}
		for _, e := range events {
			if err := writers.Write(e); err != nil {
				runLog.Close()
				return err
			}
		}
		if err := runLog.Close(); err != nil {
			return fmt.Errorf("closing run log: %w", err)
		}
	}
	return nil
}
