package query

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/nibzard/taskmaster-go/internal/schema"
)

const fixture = `{
	"currentTag": "master",
	"tags": {
		"master": {
			"name": "master",
			"isActive": true,
			"tasks": [
				{"id": 1, "title": "Setup", "description": "d", "status": "done", "priority": "low"},
				{"id": 2, "title": "api", "description": "d", "status": "pending", "priority": "high", "dependencies": ["1"]},
				{"id": 3, "title": "Docs", "description": "d", "status": "in-progress", "dependencies": ["2"],
					"subtasks": [{"id": 1, "title": "s", "description": "d", "status": "pending", "dependencies": ["4.1"]}]}
			]
		},
		"feature": {
			"name": "feature",
			"isActive": false,
			"tasks": [
				{"id": 4, "title": "Beta", "description": "d", "status": "blocked", "priority": "medium", "dependencies": ["1"],
					"subtasks": [{"id": 1, "title": "s", "description": "d", "status": "done"}]}
			]
		}
	}
}`

func load(t *testing.T) *schema.TasksFile {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(fixture), &v); err != nil {
		t.Fatal(err)
	}
	file, err := schema.ParseTasksFile(v)
	if err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	return file
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Tag + ":" + e.Ref()
	}
	return out
}

func TestApply(t *testing.T) {
	file := load(t)
	yes, no := true, false

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"feature:4", "master:1", "master:2", "master:3"}},
		{"tag", Filter{Tags: []string{"master"}}, []string{"master:1", "master:2", "master:3"}},
		{"status", Filter{Statuses: []schema.Status{schema.StatusPending, schema.StatusBlocked}}, []string{"feature:4", "master:2"}},
		{"priority", Filter{Priorities: []schema.Priority{schema.PriorityHigh}}, []string{"master:2"}},
		{"with subtasks", Filter{HasSubtasks: &yes}, []string{"feature:4", "master:3"}},
		{"without subtasks", Filter{HasSubtasks: &no}, []string{"master:1", "master:2"}},
		{"depends on", Filter{DependsOn: "1"}, []string{"feature:4", "master:2"}},
		{"combined", Filter{Tags: []string{"feature"}, Statuses: []schema.Status{schema.StatusDone}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(file, tt.filter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDependents(t *testing.T) {
	file := load(t)

	got, err := Dependents(file, "4")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"master:3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Dependents(4) = %v, want %v", ids(got), want)
	}

	got, err = Dependents(file, "4.1")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"master:3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Dependents(4.1) = %v, want %v", ids(got), want)
	}

	got, err = Dependents(file, "3")
	if err != nil || len(got) != 0 {
		t.Errorf("Dependents(3) = %v, %v", ids(got), err)
	}

	if _, err := Dependents(file, "99"); err == nil {
		t.Error("expected error for unknown id")
	}
	if _, err := Dependents(file, "x"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestReady(t *testing.T) {
	got := ids(Ready(load(t)))
	if want := []string{"feature:4", "master:2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ready = %v, want %v", got, want)
	}
}

func TestSortEntries(t *testing.T) {
	file := load(t)
	tests := []struct {
		sort Sort
		want []string
	}{
		{Sort{FieldID, Asc}, []string{"master:1", "master:2", "master:3", "feature:4"}},
		{Sort{FieldID, Desc}, []string{"feature:4", "master:3", "master:2", "master:1"}},
		{Sort{FieldTitle, Asc}, []string{"master:2", "feature:4", "master:3", "master:1"}},
		{Sort{FieldStatus, Asc}, []string{"master:2", "master:3", "feature:4", "master:1"}},
		{Sort{FieldPriority, Asc}, []string{"master:2", "feature:4", "master:1", "master:3"}},
		{Sort{FieldPriority, Desc}, []string{"master:3", "master:1", "feature:4", "master:2"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort.Field)+"-"+string(tt.sort.Order), func(t *testing.T) {
			entries := Apply(file, Filter{})
			SortEntries(entries, tt.sort)
			if got := ids(entries); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortEntries = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("", "")
	if err != nil || s != (Sort{FieldID, Asc}) {
		t.Errorf("ParseSort defaults = %+v, %v", s, err)
	}
	s, err = ParseSort("Priority", "DESC")
	if err != nil || s != (Sort{FieldPriority, Desc}) {
		t.Errorf("ParseSort = %+v, %v", s, err)
	}
	if _, err := ParseSort("createdAt", ""); err == nil {
		t.Error("expected error for unknown field")
	}
	if _, err := ParseSort("id", "sideways"); err == nil {
		t.Error("expected error for unknown order")
	}
}

func TestCounts(t *testing.T) {
	counts := Counts(Apply(load(t), Filter{}))
	if counts[schema.StatusDone] != 1 || counts[schema.StatusPending] != 1 || counts[schema.StatusBlocked] != 1 || counts[schema.StatusInProgress] != 1 {
		t.Errorf("Counts = %v", counts)
	}
}
