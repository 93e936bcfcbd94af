// Package project loads and checks the documents of a Task Master project
// directory.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/nibzard/taskmaster-go/internal/schema"
	"github.com/nibzard/taskmaster-go/internal/taskmasterdir"
)

// Slot names one of the documents a project keeps under .taskmaster.
type Slot string

const (
	SlotTasks Slot = "tasks"
	SlotState Slot = "state"
)

// Document returns the schema document kind stored in the slot.
func (s Slot) Document() schema.Document {
	if s == SlotState {
		return schema.DocumentState
	}
	return schema.DocumentTasks
}

// Path returns where the slot lives inside projectDir.
func (s Slot) Path(projectDir string) string {
	if s == SlotState {
		return taskmasterdir.StatePath(projectDir)
	}
	return taskmasterdir.TasksPath(projectDir)
}

// Options controls loading.
type Options struct {
	// SchemaPath is an optional JSON Schema applied to the tasks slot on
	// top of the built-in rules.
	SchemaPath string
	// StateSchemaPath is the same for the state slot.
	StateSchemaPath string
	// Bundled also runs the embedded JSON Schema for each slot.
	Bundled bool
	// Concurrency bounds CheckAll. Zero or less means one project at a time.
	Concurrency int
}

func (o Options) schemaPath(slot Slot) string {
	if slot == SlotState {
		return o.StateSchemaPath
	}
	return o.SchemaPath
}

// Report is the outcome of validating one document.
type Report struct {
	Path     string
	Slot     Slot
	Tasks    *schema.TasksFile
	State    *schema.State
	Issues   schema.Issues
	Warnings []string
}

// OK reports whether the document had no issues.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

// Value returns the normalized document, or nil when it had issues.
func (r *Report) Value() any {
	switch {
	case r.Tasks != nil:
		return r.Tasks
	case r.State != nil:
		return r.State
	}
	return nil
}

// LoadSlot reads, decodes and validates the document at path. I/O and JSON
// syntax errors are returned as errors; validation problems land in the
// report.
func LoadSlot(path string, slot Slot, opts Options) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s file: %w", slot, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s file %s: %w", slot, path, err)
	}
	return Check(doc, path, slot, opts), nil
}

// Check validates an already decoded document.
func Check(doc any, path string, slot Slot, opts Options) *Report {
	report := &Report{Path: path, Slot: slot}

	value, issues := schema.Validate(slot.Document(), doc)
	report.Issues = append(report.Issues, issues...)
	switch v := value.(type) {
	case *schema.TasksFile:
		report.Tasks = v
	case *schema.State:
		report.State = v
	}

	if opts.Bundled {
		v, err := schema.BundledValidator(slot.Document())
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("bundled schema unavailable: %v", err))
		} else {
			report.Issues = append(report.Issues, v.Validate(doc)...)
		}
	}
	if p := opts.schemaPath(slot); p != "" {
		v, err := schema.CompileSchemaFile(p)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("JSON Schema validation not available: %v", err))
		} else {
			report.Issues = append(report.Issues, v.Validate(doc)...)
		}
	}
	if !report.OK() {
		report.Tasks, report.State = nil, nil
	}
	return report
}

// Project is a loaded project directory.
type Project struct {
	Dir      string
	Tasks    *Report
	State    *Report
	Warnings []string
}

// OK reports whether every loaded document is valid.
func (p *Project) OK() bool {
	for _, r := range p.Reports() {
		if !r.OK() {
			return false
		}
	}
	return true
}

// Reports returns the loaded reports, tasks first.
func (p *Project) Reports() []*Report {
	var out []*Report
	if p.Tasks != nil {
		out = append(out, p.Tasks)
	}
	if p.State != nil {
		out = append(out, p.State)
	}
	return out
}

// IssueCount returns the number of issues across all reports.
func (p *Project) IssueCount() int {
	n := 0
	for _, r := range p.Reports() {
		n += len(r.Issues)
	}
	return n
}

// Open loads both slots of the project in dir. A missing tasks file is an
// error; a missing state file only produces a warning.
func Open(dir string, opts Options) (*Project, error) {
	p := &Project{Dir: dir}

	tasks, err := LoadSlot(SlotTasks.Path(dir), SlotTasks, opts)
	if err != nil {
		return nil, err
	}
	p.Tasks = tasks

	statePath := SlotState.Path(dir)
	state, err := LoadSlot(statePath, SlotState, opts)
	switch {
	case errors.Is(err, os.ErrNotExist):
		p.Warnings = append(p.Warnings, fmt.Sprintf("state file not found: %s", statePath))
	case err != nil:
		return nil, err
	default:
		p.State = state
	}

	if p.Tasks.Tasks != nil && p.State != nil && p.State.State != nil {
		current := p.State.State.CurrentTag
		if p.Tasks.Tasks.Tag(current) == nil {
			p.Warnings = append(p.Warnings, fmt.Sprintf("state currentTag '%s' has no matching tag in %s", current, p.Tasks.Path))
		}
	}
	return p, nil
}

// Outcome is the result of checking one project directory in CheckAll.
type Outcome struct {
	Dir     string
	Project *Project
	Err     error
}

// CheckAll opens every dir concurrently, at most opts.Concurrency at a
// time. Per-project failures are recorded in the outcome; only context
// cancellation stops the run. Outcomes keep the order of dirs.
func CheckAll(ctx context.Context, dirs []string, opts Options) ([]Outcome, error) {
	outcomes := make([]Outcome, len(dirs))
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, dir := range dirs {
		i, dir := i, dir
		outcomes[i].Dir = dir
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := Open(dir, opts)
			outcomes[i].Project = p
			outcomes[i].Err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}

// WriteNormalized writes v as JSON with 2-space indentation and a trailing
// newline, creating parent directories as needed.
func WriteNormalized(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
