package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Subtask is a unit of work owned by exactly one Task. Its id is scoped to
// the parent and addressed externally as "parentId.subId".
type Subtask struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Status       Status   `json:"status"`
	Priority     Priority `json:"priority,omitempty"`
	Dependencies []string `json:"dependencies"`
	Details      string   `json:"details"`
	TestStrategy string   `json:"testStrategy"`
}

// Task is a top-level unit of work inside a Tag.
type Task struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       Status    `json:"status"`
	Priority     Priority  `json:"priority,omitempty"`
	Dependencies []string  `json:"dependencies"`
	Details      string    `json:"details"`
	TestStrategy string    `json:"testStrategy"`
	Subtasks     []Subtask `json:"subtasks"`
}

// Ref returns the task id in dependency form.
func (t *Task) Ref() string {
	return strconv.Itoa(t.ID)
}

// Subtask returns the subtask with the given parent-scoped id, or nil.
func (t *Task) Subtask(id int) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

func subtaskDefaults() map[string]any {
	return map[string]any{
		"dependencies": []any{},
		"details":      "",
		"testStrategy": "",
	}
}

func taskDefaults() map[string]any {
	defaults := subtaskDefaults()
	defaults["subtasks"] = []any{}
	return defaults
}

// depRule checks the textual form of one dependency.
type depRule func(dep string) error

// anyDependency accepts either id form.
func anyDependency(dep string) error {
	if IsDependency(dep) {
		return nil
	}
	return &FormatError{Value: dep, Message: "Invalid dependency format: " + dep}
}

// classifiedDependency picks the expected form from the presence of a dot:
// dotted references must be subtask ids, the rest task ids.
func classifiedDependency(dep string) error {
	if strings.Contains(dep, ".") {
		if !IsSubtaskID(dep) {
			return &FormatError{Value: dep, Message: "Invalid subtask dependency format: " + dep}
		}
		return nil
	}
	if !IsTaskID(dep) {
		return &FormatError{Value: dep, Message: "Invalid task dependency format: " + dep}
	}
	return nil
}

// workItem holds the fields shared by tasks and subtasks.
type workItem struct {
	id           int
	title        string
	description  string
	status       Status
	priority     Priority
	dependencies []string
	details      string
	testStrategy string
}

func readWorkItem(c *collector, f fields, path Path, rule depRule) workItem {
	var w workItem
	w.id, _ = f.positiveID(c, path, "id")
	w.title, _ = f.nonEmpty(c, path, "title", "Title cannot be empty")
	w.description, _ = f.nonEmpty(c, path, "description", "Description cannot be empty")
	if s, ok := f.enum(c, path, "status", enumStrings(Statuses)); ok {
		w.status = Status(s)
	}
	if _, present := f["priority"]; present {
		if p, ok := f.enum(c, path, "priority", enumStrings(Priorities)); ok {
			w.priority = Priority(p)
		}
	}
	w.dependencies = readDependencies(c, f, path, rule)
	w.details, _ = f.str(c, path, "details", true)
	w.testStrategy, _ = f.str(c, path, "testStrategy", true)
	return w
}

// readDependencies keeps one entry per input element so indices stay
// aligned with the document; malformed entries are kept verbatim (or empty
// for non-strings) and reported.
func readDependencies(c *collector, f fields, path Path, rule depRule) []string {
	arr, ok := f.list(c, path, "dependencies")
	if !ok {
		return []string{}
	}
	deps := make([]string, len(arr))
	for i, elem := range arr {
		depPath := path.Child("dependencies", i)
		dep, ok := elem.(string)
		if !ok {
			c.typeMismatch(depPath, "string", elem)
			continue
		}
		deps[i] = dep
		if err := rule(dep); err != nil {
			c.add(depPath, KindFormat, "%s", formatMessage(err))
		}
	}
	return deps
}

func formatMessage(err error) string {
	if fe, ok := err.(*FormatError); ok {
		return fe.Message
	}
	return err.Error()
}

func validateSubtask(c *collector, raw any, path Path, rule depRule) Subtask {
	obj, ok := asObject(raw)
	if !ok {
		c.typeMismatch(path, "object", raw)
		return Subtask{Dependencies: []string{}}
	}
	w := readWorkItem(c, applyDefaults(obj, subtaskDefaults()), path, rule)
	return Subtask{
		ID:           w.id,
		Title:        w.title,
		Description:  w.description,
		Status:       w.status,
		Priority:     w.priority,
		Dependencies: w.dependencies,
		Details:      w.details,
		TestStrategy: w.testStrategy,
	}
}

func validateTask(c *collector, raw any, path Path) Task {
	obj, ok := asObject(raw)
	if !ok {
		c.typeMismatch(path, "object", raw)
		return Task{Dependencies: []string{}, Subtasks: []Subtask{}}
	}
	f := applyDefaults(obj, taskDefaults())
	w := readWorkItem(c, f, path, anyDependency)
	task := Task{
		ID:           w.id,
		Title:        w.title,
		Description:  w.description,
		Status:       w.status,
		Priority:     w.priority,
		Dependencies: w.dependencies,
		Details:      w.details,
		TestStrategy: w.testStrategy,
		Subtasks:     []Subtask{},
	}

	arr, ok := f.list(c, path, "subtasks")
	if !ok {
		return task
	}
	for i, rawSub := range arr {
		task.Subtasks = append(task.Subtasks, validateSubtask(c, rawSub, path.Child("subtasks", i), classifiedDependency))
	}

	if task.ID > 0 {
		prefix := fmt.Sprintf("%d.", task.ID)
		for i, sub := range task.Subtasks {
			if sub.ID <= 0 {
				continue
			}
			if !strings.HasPrefix(SubtaskRef(task.ID, sub.ID), prefix) {
				c.add(path.Child("subtasks", i, "id"), KindFormat, "Subtask ID %d should belong to task %d", sub.ID, task.ID)
			}
		}
	}
	return task
}

// ValidateSubtask validates a standalone subtask document. Its
// dependencies may be in either id form.
func ValidateSubtask(v any) Result[Subtask] {
	c := &collector{}
	sub := validateSubtask(c, v, nil, anyDependency)
	return finish(&sub, c)
}

// ParseSubtask returns the normalized subtask or the Issues describing why
// v is not one.
func ParseSubtask(v any) (*Subtask, error) {
	return unwrap(ValidateSubtask(v))
}

// ValidateTask validates a task together with its subtasks.
func ValidateTask(v any) Result[Task] {
	c := &collector{}
	task := validateTask(c, v, nil)
	return finish(&task, c)
}

// ParseTask returns the normalized task or the Issues describing why v is
// not one.
func ParseTask(v any) (*Task, error) {
	return unwrap(ValidateTask(v))
}
