package cmd

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/nibzard/taskmaster-go/internal/config"
	"github.com/nibzard/taskmaster-go/internal/project"
	"github.com/nibzard/taskmaster-go/internal/schema"
)

// normalizeCommand prints a validated document with every default filled
// in, or rewrites it in place.
func normalizeCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskmaster normalize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	write := fs.Bool("write", false, "Write the normalized document back in place")
	state := fs.Bool("state", false, "Use the state file instead of the tasks file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	slot := project.SlotTasks
	if *state {
		slot = project.SlotState
	}
	path := slot.Path(cfg.ProjectDir)
	report, err := project.LoadSlot(path, slot, projectOptions(cfg))
	if err != nil {
		return err
	}
	if !report.OK() {
		p := &project.Project{Dir: cfg.ProjectDir}
		if slot == project.SlotState {
			p.State = report
		} else {
			p.Tasks = report
		}
		if err := reportProjects(cfg, cfg.Format, []project.Outcome{{Dir: cfg.ProjectDir, Project: p}}); err != nil {
			return err
		}
		return ErrIssues
	}

	if *write {
		if err := project.WriteNormalized(path, report.Value()); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s\n", path)
		return nil
	}
	data, err := json.MarshalIndent(report.Value(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	fmt.Fprintln(stdout, string(data))
	return nil
}

// schemaCommand prints the bundled JSON Schema of a document kind.
func schemaCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("schema requires one argument: tasks or state")
	}
	kind, err := schema.ParseDocument(args[0])
	if err != nil {
		return err
	}
	data, err := schema.BundledSchema(kind)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}
