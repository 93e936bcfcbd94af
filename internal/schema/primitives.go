package schema

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	taskIDPattern    = regexp.MustCompile(`^\d+$`)
	subtaskIDPattern = regexp.MustCompile(`^\d+\.\d+$`)
	tagNamePattern   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Status is the lifecycle state of a task or subtask.
type Status string

const (
	StatusDone       Status = "done"
	StatusInProgress Status = "in-progress"
	StatusPending    Status = "pending"
	StatusBlocked    Status = "blocked"
)

// Statuses lists every valid Status in declaration order.
var Statuses = []Status{StatusDone, StatusInProgress, StatusPending, StatusBlocked}

// Priority is the optional urgency of a task or subtask.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every valid Priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// FormatError reports a scalar whose textual form does not match its
// required pattern.
type FormatError struct {
	Value   string
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s (got %q)", e.Message, e.Value)
}

// EnumError reports a value outside an enumeration.
type EnumError struct {
	Value   string
	Allowed []string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", quoteAll(e.Allowed), e.Value)
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, " | ")
}

// IsTaskID reports whether s is a plain numeric task id such as "12".
func IsTaskID(s string) bool {
	return taskIDPattern.MatchString(s)
}

// IsSubtaskID reports whether s is a dotted subtask id such as "12.3".
func IsSubtaskID(s string) bool {
	return subtaskIDPattern.MatchString(s)
}

// IsDependency reports whether s is a task id or a subtask id.
func IsDependency(s string) bool {
	return IsTaskID(s) || IsSubtaskID(s)
}

// ValidateTaskID returns s unchanged when it is a valid task id.
func ValidateTaskID(s string) (string, error) {
	if !IsTaskID(s) {
		return "", &FormatError{Value: s, Message: "Task ID must be a simple number (e.g., '1', '2', '3')"}
	}
	return s, nil
}

// ValidateSubtaskID returns s unchanged when it is a valid subtask id.
func ValidateSubtaskID(s string) (string, error) {
	if !IsSubtaskID(s) {
		return "", &FormatError{Value: s, Message: "Subtask ID must be in format 'number.number' (e.g., '1.1', '2.3')"}
	}
	return s, nil
}

// ValidateDependency returns s unchanged when it is a task id or a subtask
// id. The two forms are disjoint, so the order they are tried in does not
// matter.
func ValidateDependency(s string) (string, error) {
	if IsTaskID(s) || IsSubtaskID(s) {
		return s, nil
	}
	return "", &FormatError{Value: s, Message: "Dependency must be a task ID ('1') or a subtask ID ('1.1')"}
}

// ValidateStatus parses a Status.
func ValidateStatus(s string) (Status, error) {
	for _, status := range Statuses {
		if Status(s) == status {
			return status, nil
		}
	}
	return "", &EnumError{Value: s, Allowed: enumStrings(Statuses)}
}

// ValidatePriority parses a Priority.
func ValidatePriority(s string) (Priority, error) {
	for _, priority := range Priorities {
		if Priority(s) == priority {
			return priority, nil
		}
	}
	return "", &EnumError{Value: s, Allowed: enumStrings(Priorities)}
}

// ValidateTagName returns s unchanged when it is a usable tag name.
func ValidateTagName(s string) (string, error) {
	if s == "" {
		return "", &FormatError{Value: s, Message: "Tag name cannot be empty"}
	}
	if !tagNamePattern.MatchString(s) {
		return "", &FormatError{Value: s, Message: "Tag name must contain only alphanumeric characters, hyphens, and underscores"}
	}
	return s, nil
}

// SubtaskRef renders the externally visible id of a subtask.
func SubtaskRef(taskID, subtaskID int) string {
	return fmt.Sprintf("%d.%d", taskID, subtaskID)
}

// DependencyTaskID returns the task id a dependency points at: the
// dependency itself for a task id, the parent part for a subtask id.
func DependencyTaskID(dep string) string {
	head, _, _ := strings.Cut(dep, ".")
	return head
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
