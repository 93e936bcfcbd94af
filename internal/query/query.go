// Package query answers read-side questions about a validated tasks file:
// which tasks match a filter, in what order, which are ready to start and
// which depend on a given task.
package query

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/nibzard/taskmaster-go/internal/schema"
)

// Entry is one task together with the tag it belongs to.
type Entry struct {
	Tag  string
	Task schema.Task
}

// Ref returns the task id in dependency form.
func (e Entry) Ref() string {
	return strconv.Itoa(e.Task.ID)
}

// Filter selects tasks. Empty fields match everything.
type Filter struct {
	Statuses    []schema.Status
	Priorities  []schema.Priority
	Tags        []string
	HasSubtasks *bool
	// DependsOn keeps tasks with a dependency, direct or through one of
	// their subtasks, on this task id.
	DependsOn string
}

// Match reports whether the entry passes every set criterion.
func (f Filter) Match(e Entry) bool {
	if len(f.Tags) > 0 && !slices.Contains(f.Tags, e.Tag) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, e.Task.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, e.Task.Priority) {
		return false
	}
	if f.HasSubtasks != nil && (len(e.Task.Subtasks) > 0) != *f.HasSubtasks {
		return false
	}
	if f.DependsOn != "" && !dependsOn(e.Task, f.DependsOn) {
		return false
	}
	return true
}

// Apply returns the tasks of file that match filter, tag by tag in name
// order and in document order within a tag.
func Apply(file *schema.TasksFile, filter Filter) []Entry {
	var out []Entry
	for _, name := range file.TagNames() {
		for _, task := range file.Tags[name].Tasks {
			e := Entry{Tag: name, Task: task}
			if filter.Match(e) {
				out = append(out, e)
			}
		}
	}
	return out
}

// Dependents returns every task that depends on id, which may be a task
// id or a subtask id. A task id also matches dependencies on its subtasks.
// Tag activity is ignored, as it is during validation.
func Dependents(file *schema.TasksFile, id string) ([]Entry, error) {
	if !schema.IsDependency(id) {
		return nil, fmt.Errorf("invalid task id %q", id)
	}
	if !file.Index().Has(schema.DependencyTaskID(id)) {
		return nil, fmt.Errorf("task %s not found in any tag", id)
	}
	return Apply(file, Filter{DependsOn: id}), nil
}

func dependsOn(task schema.Task, id string) bool {
	match := func(dep string) bool {
		if dep == id {
			return true
		}
		return schema.IsTaskID(id) && schema.DependencyTaskID(dep) == id
	}
	if slices.ContainsFunc(task.Dependencies, match) {
		return true
	}
	for _, sub := range task.Subtasks {
		if slices.ContainsFunc(sub.Dependencies, match) {
			return true
		}
	}
	return false
}

// Ready returns tasks that are not done and whose task-level dependencies
// all point at done tasks. A dependency id present in several tags is
// satisfied only when every occurrence is done.
func Ready(file *schema.TasksFile) []Entry {
	idx := file.Index()
	done := func(dep string) bool {
		refs := idx.Resolve(dep)
		if len(refs) == 0 {
			return false
		}
		for _, ref := range refs {
			if file.Tags[ref.Tag].Tasks[ref.Index].Status != schema.StatusDone {
				return false
			}
		}
		return true
	}

	var out []Entry
	for _, e := range Apply(file, Filter{}) {
		if e.Task.Status == schema.StatusDone {
			continue
		}
		ready := true
		for _, dep := range e.Task.Dependencies {
			if !done(dep) {
				ready = false
				break
			}
		}
		if ready {
			out = append(out, e)
		}
	}
	return out
}

// Field is a sort key.
type Field string

const (
	FieldID       Field = "id"
	FieldTitle    Field = "title"
	FieldStatus   Field = "status"
	FieldPriority Field = "priority"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Sort orders entries by one field.
type Sort struct {
	Field Field
	Order Order
}

// ParseSort builds a Sort from user input. Empty values default to id and
// asc.
func ParseSort(field, order string) (Sort, error) {
	s := Sort{Field: FieldID, Order: Asc}
	switch Field(strings.ToLower(field)) {
	case "":
	case FieldID, FieldTitle, FieldStatus, FieldPriority:
		s.Field = Field(strings.ToLower(field))
	default:
		return s, fmt.Errorf("invalid sort field %q (want id, title, status or priority)", field)
	}
	switch Order(strings.ToLower(order)) {
	case "":
	case Asc, Desc:
		s.Order = Order(strings.ToLower(order))
	default:
		return s, fmt.Errorf("invalid sort order %q (want asc or desc)", order)
	}
	return s, nil
}

// statusRank follows the life of a task.
var statusRank = map[schema.Status]int{
	schema.StatusPending:    0,
	schema.StatusInProgress: 1,
	schema.StatusBlocked:    2,
	schema.StatusDone:       3,
}

// priorityRank puts high first; tasks without a priority sort last.
var priorityRank = map[schema.Priority]int{
	schema.PriorityHigh:   0,
	schema.PriorityMedium: 1,
	schema.PriorityLow:    2,
	"":                    3,
}

// SortEntries sorts entries in place. Ties keep tag order, then id order.
func SortEntries(entries []Entry, s Sort) {
	key := func(a, b Entry) int {
		switch s.Field {
		case FieldTitle:
			return strings.Compare(strings.ToLower(a.Task.Title), strings.ToLower(b.Task.Title))
		case FieldStatus:
			return statusRank[a.Task.Status] - statusRank[b.Task.Status]
		case FieldPriority:
			return priorityRank[a.Task.Priority] - priorityRank[b.Task.Priority]
		}
		return a.Task.ID - b.Task.ID
	}
	sort.SliceStable(entries, func(i, j int) bool {
		c := key(entries[i], entries[j])
		if s.Order == Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		if entries[i].Tag != entries[j].Tag {
			return entries[i].Tag < entries[j].Tag
		}
		return entries[i].Task.ID < entries[j].Task.ID
	})
}

// Counts tallies entries by status.
func Counts(entries []Entry) map[schema.Status]int {
	out := make(map[schema.Status]int, len(schema.Statuses))
	for _, e := range entries {
		out[e.Task.Status]++
	}
	return out
}
