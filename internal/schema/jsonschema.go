package schema

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// KindSchema marks issues raised by an external JSON Schema rather than by
// the built-in rules.
const KindSchema Kind = "schema"

//go:embed schemas/*.schema.json
var bundled embed.FS

// BundledSchema returns the JSON Schema shipped for a document kind. It
// covers the structural rules only; cross-entity rules have no JSON Schema
// form.
func BundledSchema(kind Document) ([]byte, error) {
	switch kind {
	case DocumentTasks, DocumentState:
		return bundled.ReadFile("schemas/" + string(kind) + ".schema.json")
	}
	return nil, fmt.Errorf("no bundled schema for %q", kind)
}

// SchemaValidator checks documents against a compiled JSON Schema.
type SchemaValidator struct {
	schema *jsonschema.Schema
	source string
}

// CompileSchemaFile compiles the JSON Schema at path.
func CompileSchemaFile(path string) (*SchemaValidator, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	compiler := newCompiler()
	compiled, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}
	return &SchemaValidator{schema: compiled, source: absPath}, nil
}

// BundledValidator compiles the bundled schema for kind.
func BundledValidator(kind Document) (*SchemaValidator, error) {
	data, err := BundledSchema(kind)
	if err != nil {
		return nil, err
	}
	url := "bundled://" + string(kind) + ".schema.json"
	compiler := newCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("load bundled %s schema: %w", kind, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile bundled %s schema: %w", kind, err)
	}
	return &SchemaValidator{schema: compiled, source: url}, nil
}

func newCompiler() *jsonschema.Compiler {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	return compiler
}

// Source returns where the schema was loaded from.
func (s *SchemaValidator) Source() string {
	return s.source
}

// Validate checks v, a decoded JSON value, and returns one issue per
// leaf schema failure.
func (s *SchemaValidator) Validate(v any) Issues {
	err := s.schema.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return Issues{{Path: Path{}, Kind: KindSchema, Message: err.Error()}}
	}
	var issues Issues
	collectSchemaIssues(&issues, ve, v)
	return issues
}

func collectSchemaIssues(issues *Issues, err *jsonschema.ValidationError, doc any) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*issues = append(*issues, Issue{
			Path:    pointerToPath(err.InstanceLocation, doc),
			Message: err.Message,
			Kind:    KindSchema,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaIssues(issues, cause, doc)
	}
}

// pointerToPath converts a JSON Pointer into a Path. Segments that index
// into an array in doc become ints; everything else stays a key, so a tag
// named "42" is still a string.
func pointerToPath(ptr string, doc any) Path {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	path := Path{}
	if ptr == "" {
		return path
	}
	cur := doc
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		switch node := cur.(type) {
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				path = append(path, part)
				cur = nil
				continue
			}
			path = append(path, idx)
			cur = node[idx]
		case map[string]any:
			path = append(path, part)
			cur = node[part]
		default:
			path = append(path, part)
			cur = nil
		}
	}
	return path
}
