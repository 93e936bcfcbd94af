package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies an Issue.
type Kind string

const (
	KindDocument    Kind = "document"
	KindType        Kind = "type"
	KindFormat      Kind = "format"
	KindEnum        Kind = "enum"
	KindRange       Kind = "range"
	KindRequired    Kind = "required"
	KindReference   Kind = "reference"
	KindExclusivity Kind = "exclusivity"
	KindUniqueness  Kind = "uniqueness"
	KindTemporal    Kind = "temporal"
)

// Path is a field-access path from the document root. Elements are either
// object keys (string) or array indices (int).
type Path []any

// Child returns a copy of p extended with elems.
func (p Path) Child(elems ...any) Path {
	out := make(Path, 0, len(p)+len(elems))
	out = append(out, p...)
	return append(out, elems...)
}

// String renders the path as dot notation with bracketed indices,
// e.g. tags.master.tasks[0].id.
func (p Path) String() string {
	var b strings.Builder
	for _, elem := range p {
		switch v := elem.(type) {
		case int:
			b.WriteString("[" + strconv.Itoa(v) + "]")
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}

// Equal reports whether p and other address the same field.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Issue is one reported validation failure.
type Issue struct {
	Path    Path   `json:"path"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

func (i Issue) Error() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Issues is an ordered list of validation failures. A non-empty Issues is
// returned as the error of the Parse functions.
type Issues []Issue

func (is Issues) Error() string {
	switch len(is) {
	case 0:
		return "no issues"
	case 1:
		return is[0].Error()
	}
	msgs := make([]string, len(is))
	for i, issue := range is {
		msgs[i] = issue.Error()
	}
	return fmt.Sprintf("%d issues: %s", len(is), strings.Join(msgs, "; "))
}

// ByKind returns the issues of the given kind.
func (is Issues) ByKind(kind Kind) Issues {
	var out Issues
	for _, issue := range is {
		if issue.Kind == kind {
			out = append(out, issue)
		}
	}
	return out
}

// At returns the issues reported at exactly path.
func (is Issues) At(path ...any) Issues {
	var out Issues
	for _, issue := range is {
		if issue.Path.Equal(Path(path)) {
			out = append(out, issue)
		}
	}
	return out
}

// Result is the outcome of validating a document: a normalized value when
// Issues is empty, otherwise the full issue list.
type Result[T any] struct {
	Value  *T
	Issues Issues
}

// OK reports whether validation produced no issues.
func (r Result[T]) OK() bool {
	return len(r.Issues) == 0
}

// Err returns the issues as an error, or nil.
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	return r.Issues
}

// collector accumulates issues during one validation pass.
type collector struct {
	issues Issues
}

func (c *collector) add(path Path, kind Kind, format string, args ...any) {
	c.issues = append(c.issues, Issue{
		Path:    path.Child(),
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	})
}

func (c *collector) len() int {
	return len(c.issues)
}

func finish[T any](value *T, c *collector) Result[T] {
	if c.len() > 0 {
		return Result[T]{Issues: c.issues}
	}
	return Result[T]{Value: value}
}

func unwrap[T any](r Result[T]) (*T, error) {
	if !r.OK() {
		return nil, r.Issues
	}
	return r.Value, nil
}
