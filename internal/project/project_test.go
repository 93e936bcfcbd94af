package project

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/taskmaster-go/internal/schema"
	"github.com/nibzard/taskmaster-go/internal/taskmasterdir"
)

const tasksJSON = `{
  "currentTag": "master",
  "tags": {
    "master": {
      "name": "master",
      "isActive": true,
      "tasks": [
        {"id": 1, "title": "Setup", "description": "Create repo", "status": "done"},
        {"id": 2, "title": "API", "description": "Handlers", "status": "pending", "dependencies": ["1"]}
      ]
    }
  }
}`

const stateJSON = `{
  "currentTag": "master",
  "projectMetadata": {
    "name": "Demo",
    "createdAt": "2024-01-01T00:00:00.000Z",
    "updatedAt": "2024-01-01T00:00:00.000Z"
  }
}`

func writeProject(t *testing.T, tasks, state string) string {
	t.Helper()
	dir := t.TempDir()
	if tasks != "" {
		writeFile(t, taskmasterdir.TasksPath(dir), tasks)
	}
	if state != "" {
		writeFile(t, taskmasterdir.StatePath(dir), state)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenValidProject(t *testing.T) {
	dir := writeProject(t, tasksJSON, stateJSON)
	p, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !p.OK() || p.IssueCount() != 0 {
		t.Fatalf("unexpected issues: %v / %v", p.Tasks.Issues, p.State.Issues)
	}
	if p.Tasks.Tasks == nil || p.State.State == nil {
		t.Fatal("normalized values missing")
	}
	if len(p.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", p.Warnings)
	}
	if got := len(p.Reports()); got != 2 {
		t.Errorf("Reports() = %d, want 2", got)
	}
}

func TestOpenMissingFiles(t *testing.T) {
	dir := writeProject(t, tasksJSON, "")
	p, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.State != nil {
		t.Error("State should be nil")
	}
	if len(p.Warnings) != 1 || !strings.Contains(p.Warnings[0], "state file not found") {
		t.Errorf("Warnings = %v", p.Warnings)
	}

	_, err = Open(t.TempDir(), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open without tasks file: err = %v, want ErrNotExist", err)
	}
}

func TestOpenReportsIssues(t *testing.T) {
	bad := strings.Replace(tasksJSON, `"dependencies": ["1"]`, `"dependencies": ["9"]`, 1)
	dir := writeProject(t, bad, stateJSON)
	p, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.OK() || p.IssueCount() != 1 {
		t.Fatalf("issues = %v", p.Tasks.Issues)
	}
	if p.Tasks.Tasks != nil || p.Tasks.Value() != nil {
		t.Error("value must be nil when issues are present")
	}
	if p.Tasks.Issues[0].Kind != schema.KindReference {
		t.Errorf("kind = %s", p.Tasks.Issues[0].Kind)
	}
}

func TestOpenWarnsOnStateTagMismatch(t *testing.T) {
	state := strings.Replace(stateJSON, `"currentTag": "master"`, `"currentTag": "feature", "availableTags": ["master", "feature"]`, 1)
	p, err := Open(writeProject(t, tasksJSON, state), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !p.OK() {
		t.Fatalf("unexpected issues: %v", p.State.Issues)
	}
	if len(p.Warnings) != 1 || !strings.Contains(p.Warnings[0], "'feature'") {
		t.Errorf("Warnings = %v", p.Warnings)
	}
}

func TestLoadSlotSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	writeFile(t, path, `{"tags": `)
	if _, err := LoadSlot(path, SlotTasks, Options{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadSlotExternalSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "tasks.schema.json")
	writeFile(t, schemaPath, `{"type": "object", "required": ["projectMetadata"]}`)
	tasksPath := filepath.Join(dir, "tasks.json")
	writeFile(t, tasksPath, tasksJSON)

	r, err := LoadSlot(tasksPath, SlotTasks, Options{SchemaPath: schemaPath})
	if err != nil {
		t.Fatalf("LoadSlot: %v", err)
	}
	if len(r.Issues) == 0 || r.Issues[0].Kind != schema.KindSchema {
		t.Fatalf("issues = %v", r.Issues)
	}

	r, err = LoadSlot(tasksPath, SlotTasks, Options{SchemaPath: filepath.Join(dir, "missing.json")})
	if err != nil {
		t.Fatalf("LoadSlot: %v", err)
	}
	if !r.OK() || len(r.Warnings) != 1 {
		t.Errorf("missing schema should only warn: issues %v, warnings %v", r.Issues, r.Warnings)
	}
}

func TestLoadSlotBundledSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	writeFile(t, path, stateJSON)
	r, err := LoadSlot(path, SlotState, Options{Bundled: true})
	if err != nil {
		t.Fatalf("LoadSlot: %v", err)
	}
	if !r.OK() || r.State == nil {
		t.Errorf("issues = %v", r.Issues)
	}
}

func TestSlotPaths(t *testing.T) {
	if SlotTasks.Path("p") != taskmasterdir.TasksPath("p") || SlotState.Path("p") != taskmasterdir.StatePath("p") {
		t.Error("slot paths do not follow the directory layout")
	}
	if SlotTasks.Document() != schema.DocumentTasks || SlotState.Document() != schema.DocumentState {
		t.Error("slot documents mismatch")
	}
}

func TestCheckAll(t *testing.T) {
	good := writeProject(t, tasksJSON, stateJSON)
	missing := t.TempDir()
	bad := writeProject(t, `[]`, "")

	outcomes, err := CheckAll(context.Background(), []string{good, missing, bad}, Options{Concurrency: 2})
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d", len(outcomes))
	}
	if outcomes[0].Dir != good || outcomes[0].Err != nil || !outcomes[0].Project.OK() {
		t.Errorf("good outcome = %+v", outcomes[0])
	}
	if outcomes[1].Err == nil {
		t.Error("missing project should fail")
	}
	if outcomes[2].Err != nil || outcomes[2].Project.OK() {
		t.Errorf("bad outcome = %+v", outcomes[2])
	}
}

func TestCheckAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CheckAll(ctx, []string{t.TempDir()}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWriteNormalized(t *testing.T) {
	dir := writeProject(t, `{}`, "")
	p, err := Open(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "nested", "tasks.json")
	if err := WriteNormalized(out, p.Tasks.Value()); err != nil {
		t.Fatalf("WriteNormalized: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "}\n") || !strings.Contains(string(data), "\n  \"version\": \"1.0.0\"") {
		t.Errorf("unexpected output:\n%s", data)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if _, err := schema.ParseTasksFile(doc); err != nil {
		t.Errorf("written file does not validate: %v", err)
	}
}
