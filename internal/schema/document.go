package schema

import "fmt"

// Document names one of the two document kinds the engine understands.
type Document string

const (
	DocumentTasks Document = "tasks"
	DocumentState Document = "state"
)

// ParseDocument maps a user-supplied name onto a Document.
func ParseDocument(name string) (Document, error) {
	switch Document(name) {
	case DocumentTasks, DocumentState:
		return Document(name), nil
	}
	return "", fmt.Errorf("unknown document kind %q (want %s or %s)", name, DocumentTasks, DocumentState)
}

// Validate dispatches v to the validator for kind and returns the
// normalized value (*TasksFile or *State) together with any issues. The
// value is nil whenever issues are present.
func Validate(kind Document, v any) (any, Issues) {
	switch kind {
	case DocumentTasks:
		r := ValidateTasksFile(v)
		if !r.OK() {
			return nil, r.Issues
		}
		return r.Value, nil
	case DocumentState:
		r := ValidateState(v)
		if !r.OK() {
			return nil, r.Issues
		}
		return r.Value, nil
	}
	return nil, Issues{{Path: Path{}, Kind: KindDocument, Message: fmt.Sprintf("unknown document kind %q", kind)}}
}
