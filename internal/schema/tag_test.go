package schema

import "testing"

func TestParseTagDefaults(t *testing.T) {
	tag, err := ParseTag(decode(t, `{"name": "test"}`))
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	if tag.Tasks == nil || len(tag.Tasks) != 0 {
		t.Errorf("Tasks = %#v, want empty", tag.Tasks)
	}
	if tag.IsActive {
		t.Error("IsActive should default to false")
	}
	if tag.Metadata != nil {
		t.Errorf("Metadata = %+v, want nil", tag.Metadata)
	}
}

func TestParseTagWithTasks(t *testing.T) {
	tag, err := ParseTag(decode(t, `{
		"name": "test-tag",
		"isActive": false,
		"tasks": [
			{"id": 1, "title": "Test Task", "description": "Test description", "status": "pending"}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	if len(tag.Tasks) != 1 || tag.Task(1) == nil {
		t.Fatalf("Tasks = %+v", tag.Tasks)
	}
	if tag.Task(2) != nil {
		t.Error("Task(2) should be nil")
	}
}

func TestParseTagNames(t *testing.T) {
	for _, name := range []string{"test", "test-tag", "test_tag", "test123"} {
		tag, err := ParseTag(map[string]any{"name": name})
		if err != nil {
			t.Errorf("ParseTag(%q): %v", name, err)
			continue
		}
		if tag.Name != name {
			t.Errorf("Name = %q, want %q", tag.Name, name)
		}
	}

	for _, name := range []string{"", "tag with spaces", "tag@special", "tag.dot"} {
		r := ValidateTag(map[string]any{"name": name})
		if r.OK() {
			t.Errorf("ValidateTag(%q): expected issues", name)
			continue
		}
		expectIssue(t, r.Issues, KindFormat, "name")
	}

	r := ValidateTag(map[string]any{})
	expectIssue(t, r.Issues, KindRequired, "name")
}

func TestParseTagNestedTaskPaths(t *testing.T) {
	r := ValidateTag(decode(t, `{
		"name": "feature",
		"isActive": "yes",
		"tasks": [
			{"id": 1, "title": "A", "description": "A", "status": "pending"},
			{"id": 2, "title": "B", "description": "B", "status": "later"}
		]
	}`))
	if len(r.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", r.Issues)
	}
	expectIssue(t, r.Issues, KindEnum, "tasks", 1, "status")
	expectIssue(t, r.Issues, KindType, "isActive")
}

func TestTagMetadata(t *testing.T) {
	r := ValidateTagMetadata(decode(t, `{
		"description": "Test tag",
		"createdAt": "2024-01-01T00:00:00.000Z",
		"updatedAt": "2024-01-01T00:00:00.000Z",
		"author": "Test Author",
		"version": "1.0.0"
	}`))
	if !r.OK() {
		t.Fatalf("unexpected issues: %v", r.Issues)
	}
	if r.Value.Author != "Test Author" || r.Value.CreatedAt != "2024-01-01T00:00:00.000Z" {
		t.Errorf("metadata = %+v", r.Value)
	}

	if r := ValidateTagMetadata(map[string]any{}); !r.OK() {
		t.Errorf("empty metadata rejected: %v", r.Issues)
	}

	r = ValidateTagMetadata(map[string]any{"createdAt": "invalid-date"})
	expectIssue(t, r.Issues, KindFormat, "createdAt")
	r = ValidateTagMetadata(map[string]any{"updatedAt": "2024-01-01"})
	expectIssue(t, r.Issues, KindFormat, "updatedAt")
}

func TestParseTagMetadata(t *testing.T) {
	md, err := ParseTagMetadata(map[string]any{"author": "me"})
	if err != nil || md.Author != "me" {
		t.Errorf("ParseTagMetadata = %+v, %v", md, err)
	}
	if _, err := ParseTagMetadata(map[string]any{"createdAt": "yesterday"}); err == nil {
		t.Error("expected error for bad datetime")
	}
}
