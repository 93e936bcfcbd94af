package schema

// TagMetadata is optional descriptive information attached to a Tag.
type TagMetadata struct {
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	Author      string `json:"author,omitempty"`
	Version     string `json:"version,omitempty"`
}

// Tag is an independent namespace of tasks.
type Tag struct {
	Name     string       `json:"name"`
	Tasks    []Task       `json:"tasks"`
	Metadata *TagMetadata `json:"metadata,omitempty"`
	IsActive bool         `json:"isActive"`
}

// Task returns the first task with the given id, or nil.
func (t *Tag) Task(id int) *Task {
	for i := range t.Tasks {
		if t.Tasks[i].ID == id {
			return &t.Tasks[i]
		}
	}
	return nil
}

func tagDefaults() map[string]any {
	return map[string]any{
		"tasks":    []any{},
		"isActive": false,
	}
}

// tagState carries what the aggregate pass needs to know about a tag
// beyond its value.
type tagState struct {
	tag         Tag
	activeKnown bool
}

func validateTagMetadata(c *collector, obj map[string]any, path Path) *TagMetadata {
	f := fields(obj)
	md := &TagMetadata{}
	md.Description, _ = f.str(c, path, "description", false)
	md.CreatedAt, _ = f.datetime(c, path, "createdAt", false)
	md.UpdatedAt, _ = f.datetime(c, path, "updatedAt", false)
	md.Author, _ = f.str(c, path, "author", false)
	md.Version, _ = f.str(c, path, "version", false)
	return md
}

func validateTag(c *collector, raw any, path Path) tagState {
	obj, ok := asObject(raw)
	if !ok {
		c.typeMismatch(path, "object", raw)
		return tagState{tag: Tag{Tasks: []Task{}}}
	}
	f := applyDefaults(obj, tagDefaults())
	st := tagState{tag: Tag{Tasks: []Task{}}}

	if name, ok := f.str(c, path, "name", true); ok {
		if _, err := ValidateTagName(name); err != nil {
			c.add(path.Child("name"), KindFormat, "%s", formatMessage(err))
		} else {
			st.tag.Name = name
		}
	}

	if arr, ok := f.list(c, path, "tasks"); ok {
		for i, rawTask := range arr {
			st.tag.Tasks = append(st.tag.Tasks, validateTask(c, rawTask, path.Child("tasks", i)))
		}
	}

	if md, ok := f.object(c, path, "metadata", false); ok {
		st.tag.Metadata = validateTagMetadata(c, md, path.Child("metadata"))
	}

	st.tag.IsActive, st.activeKnown = f.boolean(c, path, "isActive")
	return st
}

// ValidateTagMetadata validates a standalone tag metadata object.
func ValidateTagMetadata(v any) Result[TagMetadata] {
	c := &collector{}
	obj, ok := asObject(v)
	if !ok {
		c.add(nil, KindDocument, "Expected object, received %s", typeName(v))
		return finish[TagMetadata](nil, c)
	}
	return finish(validateTagMetadata(c, obj, nil), c)
}

// ParseTagMetadata returns the normalized tag metadata.
func ParseTagMetadata(v any) (*TagMetadata, error) {
	return unwrap(ValidateTagMetadata(v))
}

// ValidateTag validates one tag and its tasks. Rules that relate a tag to
// its siblings belong to ValidateTasksFile.
func ValidateTag(v any) Result[Tag] {
	c := &collector{}
	st := validateTag(c, v, nil)
	return finish(&st.tag, c)
}

// ParseTag returns the normalized tag or the Issues describing why v is not
// one.
func ParseTag(v any) (*Tag, error) {
	return unwrap(ValidateTag(v))
}
