package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/nibzard/taskmaster-go/internal/config"
	"github.com/nibzard/taskmaster-go/internal/query"
	"github.com/nibzard/taskmaster-go/internal/schema"
)

// tasksCommand lists tasks of the configured project.
func tasksCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskmaster tasks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tag := fs.String("tag", "", "Only tasks of this tag")
	statuses := fs.String("status", "", "Comma-separated statuses (pending, in-progress, blocked, done)")
	priorities := fs.String("priority", "", "Comma-separated priorities (high, medium, low)")
	sortField := fs.String("sort", "id", "Sort field (id, title, status, priority)")
	sortOrder := fs.String("order", "asc", "Sort order (asc, desc)")
	ready := fs.Bool("ready", false, "Only tasks whose dependencies are done")
	asJSON := fs.Bool("json", false, "Print tasks as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	filter := query.Filter{}
	if *tag != "" {
		filter.Tags = []string{*tag}
	}
	for _, s := range splitAndTrim(*statuses, ",") {
		status, err := schema.ValidateStatus(s)
		if err != nil {
			return err
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	for _, s := range splitAndTrim(*priorities, ",") {
		priority, err := schema.ValidatePriority(s)
		if err != nil {
			return err
		}
		filter.Priorities = append(filter.Priorities, priority)
	}
	sort, err := query.ParseSort(*sortField, *sortOrder)
	if err != nil {
		return err
	}

	p, err := openProject(cfg)
	if err != nil {
		return err
	}
	file := p.Tasks.Tasks
	if *tag != "" && file.Tag(*tag) == nil {
		return fmt.Errorf("tag %q not found", *tag)
	}

	entries := query.Apply(file, filter)
	if *ready {
		entries = intersect(entries, query.Ready(file))
	}
	query.SortEntries(entries, sort)

	if *asJSON {
		return printEntriesJSON(stdout, entries)
	}
	printEntries(stdout, entries)
	return nil
}

// depsCommand lists the tasks that depend on a task or subtask id.
func depsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskmaster deps", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print tasks as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("deps requires exactly one task or subtask id")
	}

	p, err := openProject(cfg)
	if err != nil {
		return err
	}
	entries, err := query.Dependents(p.Tasks.Tasks, fs.Arg(0))
	if err != nil {
		return err
	}
	if *asJSON {
		return printEntriesJSON(stdout, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintf(stdout, "No tasks depend on %s.\n", fs.Arg(0))
		return nil
	}
	printEntries(stdout, entries)
	return nil
}

// intersect keeps the entries of a that also appear in b.
func intersect(a, b []query.Entry) []query.Entry {
	keep := make(map[string]bool, len(b))
	for _, e := range b {
		keep[e.Tag+"/"+e.Ref()] = true
	}
	out := a[:0]
	for _, e := range a {
		if keep[e.Tag+"/"+e.Ref()] {
			out = append(out, e)
		}
	}
	return out
}

// printEntries prints one line per task with its subtasks indented below.
func printEntries(w io.Writer, entries []query.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("  %s %s:%d %s", statusIcon(e.Task.Status), e.Tag, e.Task.ID, e.Task.Title)
		if e.Task.Priority != "" {
			line += fmt.Sprintf(" (%s)", e.Task.Priority)
		}
		fmt.Fprintln(w, line)
		for _, sub := range e.Task.Subtasks {
			fmt.Fprintf(w, "      %s %s %s\n", statusIcon(sub.Status), schema.SubtaskRef(e.Task.ID, sub.ID), sub.Title)
		}
	}
}

type entryJSON struct {
	Tag  string      `json:"tag"`
	Task schema.Task `json:"task"`
}

func printEntriesJSON(w io.Writer, entries []query.Entry) error {
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = entryJSON{Tag: e.Tag, Task: e.Task}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func statusIcon(s schema.Status) string {
	switch s {
	case schema.StatusInProgress:
		return "[>]"
	case schema.StatusBlocked:
		return "[!]"
	case schema.StatusDone:
		return "[x]"
	}
	return "[ ]"
}
