package schema

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// decode parses a JSON literal the same way project files are decoded.
func decode(t *testing.T, src string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("decode %s: %v", src, err)
	}
	return v
}

func expectIssue(t *testing.T, issues Issues, kind Kind, path ...any) Issue {
	t.Helper()
	at := issues.At(path...)
	if len(at) != 1 {
		t.Fatalf("expected exactly one issue at %v, got %d (all issues: %v)", Path(path), len(at), issues)
	}
	if at[0].Kind != kind {
		t.Errorf("issue at %v: kind = %s, want %s", Path(path), at[0].Kind, kind)
	}
	return at[0]
}

func TestParseSubtaskValid(t *testing.T) {
	doc := decode(t, `{
		"id": 1,
		"title": "Test Subtask",
		"description": "Test description",
		"status": "pending",
		"priority": "medium",
		"dependencies": [],
		"details": "Test details",
		"testStrategy": "Test strategy"
	}`)

	sub, err := ParseSubtask(doc)
	if err != nil {
		t.Fatalf("ParseSubtask: %v", err)
	}
	want := &Subtask{
		ID:           1,
		Title:        "Test Subtask",
		Description:  "Test description",
		Status:       StatusPending,
		Priority:     PriorityMedium,
		Dependencies: []string{},
		Details:      "Test details",
		TestStrategy: "Test strategy",
	}
	if !reflect.DeepEqual(sub, want) {
		t.Errorf("ParseSubtask:\n got %+v\nwant %+v", sub, want)
	}
}

func TestParseSubtaskDefaults(t *testing.T) {
	sub, err := ParseSubtask(decode(t, `{"id": 1, "title": "Test", "description": "Test desc", "status": "pending"}`))
	if err != nil {
		t.Fatalf("ParseSubtask: %v", err)
	}
	if sub.Dependencies == nil || len(sub.Dependencies) != 0 {
		t.Errorf("Dependencies = %#v, want empty non-nil slice", sub.Dependencies)
	}
	if sub.Details != "" || sub.TestStrategy != "" {
		t.Errorf("Details/TestStrategy = %q/%q, want empty", sub.Details, sub.TestStrategy)
	}
	if sub.Priority != "" {
		t.Errorf("Priority = %q, want absent", sub.Priority)
	}
}

func TestParseSubtaskRejects(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
		kind  Kind
	}{
		{"negative id", `{"id": -1, "title": "T", "description": "D", "status": "pending"}`, "id", KindRange},
		{"zero id", `{"id": 0, "title": "T", "description": "D", "status": "pending"}`, "id", KindRange},
		{"fractional id", `{"id": 1.5, "title": "T", "description": "D", "status": "pending"}`, "id", KindType},
		{"string id", `{"id": "1", "title": "T", "description": "D", "status": "pending"}`, "id", KindType},
		{"empty title", `{"id": 1, "title": "", "description": "D", "status": "pending"}`, "title", KindRequired},
		{"missing title", `{"id": 1, "description": "D", "status": "pending"}`, "title", KindRequired},
		{"empty description", `{"id": 1, "title": "T", "description": "", "status": "pending"}`, "description", KindRequired},
		{"bad status", `{"id": 1, "title": "T", "description": "D", "status": "invalid"}`, "status", KindEnum},
		{"bad priority", `{"id": 1, "title": "T", "description": "D", "status": "done", "priority": "urgent"}`, "priority", KindEnum},
		{"null details", `{"id": 1, "title": "T", "description": "D", "status": "done", "details": null}`, "details", KindType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSubtask(decode(t, tt.doc))
			var issues Issues
			if !errors.As(err, &issues) {
				t.Fatalf("expected Issues error, got %v", err)
			}
			expectIssue(t, issues, tt.kind, tt.field)
		})
	}
}

func TestParseSubtaskCollectsAllIssues(t *testing.T) {
	r := ValidateSubtask(decode(t, `{"id": 0, "title": "", "description": "", "status": "nope", "dependencies": ["x", 3]}`))
	if r.OK() {
		t.Fatal("expected issues")
	}
	if r.Value != nil {
		t.Error("expected no value when issues are present")
	}
	if len(r.Issues) != 6 {
		t.Fatalf("expected 6 issues, got %d: %v", len(r.Issues), r.Issues)
	}
	expectIssue(t, r.Issues, KindFormat, "dependencies", 0)
	expectIssue(t, r.Issues, KindType, "dependencies", 1)
}

func TestParseSubtaskStandaloneDependencies(t *testing.T) {
	sub, err := ParseSubtask(decode(t, `{"id": 1, "title": "T", "description": "D", "status": "pending", "dependencies": ["1", "2.1", "3"]}`))
	if err != nil {
		t.Fatalf("ParseSubtask: %v", err)
	}
	if want := []string{"1", "2.1", "3"}; !reflect.DeepEqual(sub.Dependencies, want) {
		t.Errorf("Dependencies = %v, want %v", sub.Dependencies, want)
	}

	r := ValidateSubtask(decode(t, `{"id": 1, "title": "T", "description": "D", "status": "pending", "dependencies": ["2.1.3"]}`))
	issue := expectIssue(t, r.Issues, KindFormat, "dependencies", 0)
	if issue.Message != "Invalid dependency format: 2.1.3" {
		t.Errorf("message = %q", issue.Message)
	}
}

func TestParseTaskValid(t *testing.T) {
	doc := decode(t, `{
		"id": 1,
		"title": "Test Task",
		"description": "Test description",
		"status": "pending",
		"priority": "high",
		"subtasks": [
			{"id": 1, "title": "Sub", "description": "Sub desc", "status": "pending"}
		]
	}`)

	task, err := ParseTask(doc)
	if err != nil {
		t.Fatalf("ParseTask: %v", err)
	}
	if len(task.Subtasks) != 1 {
		t.Fatalf("Subtasks = %d, want 1", len(task.Subtasks))
	}
	if task.Subtask(1) == nil || task.Subtask(2) != nil {
		t.Errorf("Subtask lookup mismatch")
	}
	if task.Ref() != "1" {
		t.Errorf("Ref() = %q", task.Ref())
	}
	if task.Subtasks[0].Dependencies == nil {
		t.Error("subtask dependencies not defaulted")
	}
}

func TestParseTaskDefaults(t *testing.T) {
	task, err := ParseTask(decode(t, `{"id": 1, "title": "Test", "description": "Test desc", "status": "pending"}`))
	if err != nil {
		t.Fatalf("ParseTask: %v", err)
	}
	if task.Dependencies == nil || len(task.Dependencies) != 0 {
		t.Errorf("Dependencies = %#v", task.Dependencies)
	}
	if task.Subtasks == nil || len(task.Subtasks) != 0 {
		t.Errorf("Subtasks = %#v", task.Subtasks)
	}
}

func TestParseTaskRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"zero id":           `{"id": 0, "title": "T", "description": "D", "status": "pending"}`,
		"empty title":       `{"id": 1, "title": "", "description": "D", "status": "pending"}`,
		"empty description": `{"id": 1, "title": "T", "description": "", "status": "pending"}`,
		"not an object":     `[1, 2]`,
		"subtasks not list": `{"id": 1, "title": "T", "description": "D", "status": "pending", "subtasks": {}}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTask(decode(t, doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSubtaskDependencyClassification(t *testing.T) {
	doc := decode(t, `{
		"id": 2,
		"title": "Parent",
		"description": "Parent desc",
		"status": "pending",
		"subtasks": [
			{"id": 1, "title": "S", "description": "D", "status": "pending", "dependencies": ["2.1", "2", "2.1.3", "x", "1."]}
		]
	}`)

	r := ValidateTask(doc)
	if len(r.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %d: %v", len(r.Issues), r.Issues)
	}
	if got := expectIssue(t, r.Issues, KindFormat, "subtasks", 0, "dependencies", 2).Message; got != "Invalid subtask dependency format: 2.1.3" {
		t.Errorf("message for 2.1.3 = %q", got)
	}
	if got := expectIssue(t, r.Issues, KindFormat, "subtasks", 0, "dependencies", 3).Message; got != "Invalid task dependency format: x" {
		t.Errorf("message for x = %q", got)
	}
	if got := expectIssue(t, r.Issues, KindFormat, "subtasks", 0, "dependencies", 4).Message; got != "Invalid subtask dependency format: 1." {
		t.Errorf("message for 1. = %q", got)
	}
}

func TestTaskLevelDependencyFormat(t *testing.T) {
	r := ValidateTask(decode(t, `{"id": 1, "title": "T", "description": "D", "status": "done", "dependencies": ["3", "3.2", "3.2.1"]}`))
	if len(r.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", r.Issues)
	}
	expectIssue(t, r.Issues, KindFormat, "dependencies", 2)
}

func TestTaskSubtaskIssuesAreNested(t *testing.T) {
	r := ValidateTask(decode(t, `{
		"id": 3, "title": "T", "description": "D", "status": "done",
		"subtasks": [
			{"id": 1, "title": "ok", "description": "ok", "status": "done"},
			{"id": -2, "title": "", "description": "ok", "status": "done"}
		]
	}`))
	if len(r.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", r.Issues)
	}
	expectIssue(t, r.Issues, KindRange, "subtasks", 1, "id")
	expectIssue(t, r.Issues, KindRequired, "subtasks", 1, "title")
}
