package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskmaster-go/internal/project"
	"github.com/nibzard/taskmaster-go/internal/schema"
)

// Event types.
const (
	EventIssue   = "issue"
	EventWarning = "warning"
	EventError   = "error"
	EventSummary = "summary"
)

// Event is one line of an issue log.
type Event struct {
	Type    string      `json:"type"`
	Time    time.Time   `json:"time"`
	Project string      `json:"project,omitempty"`
	File    string      `json:"file,omitempty"`
	Slot    string      `json:"slot,omitempty"`
	Path    string      `json:"path,omitempty"`
	Kind    schema.Kind `json:"kind,omitempty"`
	Message string      `json:"message"`
	Issues  int         `json:"issues,omitempty"`
}

// EventWriter consumes events.
type EventWriter interface {
	Write(Event) error
}

// JSONLWriter writes one JSON object per line. It is safe for concurrent
// use.
type JSONLWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer on w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{enc: json.NewEncoder(w)}
}

// Write encodes the event as a single line.
func (j *JSONLWriter) Write(e Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(e); err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return nil
}

// ConsoleWriter renders events through a console logger: issues and
// errors at error level, warnings at warn, summaries at info.
type ConsoleWriter struct {
	logger *log.Logger
}

// NewConsoleWriter wraps logger.
func NewConsoleWriter(logger *log.Logger) *ConsoleWriter {
	return &ConsoleWriter{logger: logger}
}

// Write logs the event.
func (c *ConsoleWriter) Write(e Event) error {
	var fields []any
	if e.File != "" {
		fields = append(fields, "file", e.File)
	}
	if e.Path != "" {
		fields = append(fields, "path", e.Path)
	}
	if e.Kind != "" {
		fields = append(fields, "kind", string(e.Kind))
	}

	switch e.Type {
	case EventIssue, EventError:
		c.logger.Error(e.Message, fields...)
	case EventWarning:
		c.logger.Warn(e.Message, fields...)
	default:
		if e.Project != "" {
			fields = append(fields, "project", e.Project)
		}
		fields = append(fields, "issues", e.Issues)
		c.logger.Info(e.Message, fields...)
	}
	return nil
}

// MultiWriter fans events out to several writers and returns the first
// error.
type MultiWriter []EventWriter

// Write writes e to every writer.
func (m MultiWriter) Write(e Event) error {
	var first error
	for _, w := range m {
		if err := w.Write(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ReportEvents converts a project check into events: warnings first, then
// each issue in order, then one summary.
func ReportEvents(dir string, p *project.Project, now time.Time) []Event {
	var events []Event
	for _, w := range p.Warnings {
		events = append(events, Event{Type: EventWarning, Time: now, Project: dir, Message: w})
	}
	for _, r := range p.Reports() {
		for _, w := range r.Warnings {
			events = append(events, Event{Type: EventWarning, Time: now, Project: dir, File: r.Path, Slot: string(r.Slot), Message: w})
		}
		for _, issue := range r.Issues {
			events = append(events, Event{
				Type:    EventIssue,
				Time:    now,
				Project: dir,
				File:    r.Path,
				Slot:    string(r.Slot),
				Path:    issue.Path.String(),
				Kind:    issue.Kind,
				Message: issue.Message,
			})
		}
	}
	msg := "project valid"
	if !p.OK() {
		msg = "project has issues"
	}
	events = append(events, Event{Type: EventSummary, Time: now, Project: dir, Message: msg, Issues: p.IssueCount()})
	return events
}

// ErrorEvent reports a project that could not be loaded.
func ErrorEvent(dir string, err error, now time.Time) Event {
	return Event{Type: EventError, Time: now, Project: dir, Message: err.Error()}
}
