package schema

// TasksFile is the root of a tasks.json document: a set of tags, each an
// independent namespace of tasks, plus file-level metadata.
type TasksFile struct {
	Version          string           `json:"version"`
	ProjectMetadata  *ProjectMetadata `json:"projectMetadata,omitempty"`
	Tags             map[string]Tag   `json:"tags"`
	CurrentTag       string           `json:"currentTag"`
	MigrationVersion string           `json:"migrationVersion,omitempty"`
	CreatedAt        string           `json:"createdAt,omitempty"`
	UpdatedAt        string           `json:"updatedAt,omitempty"`
}

// TagNames returns the tag names in sorted order.
func (f *TasksFile) TagNames() []string {
	return sortedKeys(f.Tags)
}

// Tag returns the named tag, or nil.
func (f *TasksFile) Tag(name string) *Tag {
	tag, ok := f.Tags[name]
	if !ok {
		return nil
	}
	return &tag
}

// ActiveTag returns the tag marked active. On a validated file there is
// exactly one.
func (f *TasksFile) ActiveTag() (string, *Tag) {
	for _, name := range f.TagNames() {
		if f.Tags[name].IsActive {
			return name, f.Tag(name)
		}
	}
	return "", nil
}

// Index builds a TaskIndex over every tag.
func (f *TasksFile) Index() *TaskIndex {
	return NewTaskIndex(f.Tags)
}

func tasksFileDefaults() map[string]any {
	return map[string]any{
		"version":    DefaultVersion,
		"currentTag": DefaultTag,
		"tags": map[string]any{
			DefaultTag: map[string]any{
				"name":     DefaultTag,
				"tasks":    []any{},
				"isActive": true,
			},
		},
	}
}

// ValidateTasksFile validates a decoded tasks.json document.
//
// Every tag is validated on its own first. A second pass then checks the
// rules that span tags: the current tag exists, exactly one tag is active,
// task ids are unique within each tag, and every dependency names a task
// id present in some tag. The second pass uses whatever the first pass
// could parse, so both kinds of issue are reported together.
func ValidateTasksFile(v any) Result[TasksFile] {
	c := &collector{}
	obj, ok := asObject(v)
	if !ok {
		c.add(nil, KindDocument, "Expected object, received %s", typeName(v))
		return finish[TasksFile](nil, c)
	}
	f := applyDefaults(obj, tasksFileDefaults())
	file := &TasksFile{Tags: map[string]Tag{}}

	file.Version, _ = f.str(c, nil, "version", true)
	if md, ok := f.object(c, nil, "projectMetadata", false); ok {
		pm := validateProjectMetadata(c, md, Path{"projectMetadata"})
		file.ProjectMetadata = &pm
	}

	states := map[string]tagState{}
	rawTags, tagsOK := f.object(c, nil, "tags", true)
	if tagsOK {
		for _, name := range sortedKeys(rawTags) {
			st := validateTag(c, rawTags[name], Path{"tags", name})
			states[name] = st
			file.Tags[name] = st.tag
		}
	}

	currentTag, currentOK := f.str(c, nil, "currentTag", true)
	file.CurrentTag = currentTag
	file.MigrationVersion, _ = f.str(c, nil, "migrationVersion", false)
	file.CreatedAt, _ = f.datetime(c, nil, "createdAt", false)
	file.UpdatedAt, _ = f.datetime(c, nil, "updatedAt", false)

	if tagsOK {
		if currentOK {
			checkCurrentTag(c, file)
		}
		checkActiveTags(c, states)
		checkDuplicateIDs(c, file)
		checkDependencies(c, file)
	}
	return finish(file, c)
}

// ParseTasksFile returns the normalized tasks file or the Issues describing
// every problem found in v.
func ParseTasksFile(v any) (*TasksFile, error) {
	return unwrap(ValidateTasksFile(v))
}

func checkCurrentTag(c *collector, file *TasksFile) {
	if _, ok := file.Tags[file.CurrentTag]; !ok {
		c.add(Path{"currentTag"}, KindReference, "Current tag '%s' must exist in tags", file.CurrentTag)
	}
}

// checkActiveTags requires exactly one active tag. It stays silent when a
// tag's isActive flag could not be read, since the count would be a guess.
func checkActiveTags(c *collector, states map[string]tagState) {
	active := 0
	for _, st := range states {
		if !st.activeKnown {
			return
		}
		if st.tag.IsActive {
			active++
		}
	}
	if active == 0 {
		c.add(Path{"tags"}, KindExclusivity, "At least one tag must be active")
	}
	if active > 1 {
		c.add(Path{"tags"}, KindExclusivity, "Only one tag can be active at a time")
	}
}

// checkDuplicateIDs flags every repeat of a task id within one tag. The
// first occurrence is left alone. The same id in two tags is fine.
func checkDuplicateIDs(c *collector, file *TasksFile) {
	for _, name := range file.TagNames() {
		seen := make(map[int]bool)
		for i, task := range file.Tags[name].Tasks {
			if task.ID <= 0 {
				continue
			}
			if seen[task.ID] {
				c.add(Path{"tags", name, "tasks", i, "id"}, KindUniqueness, "Duplicate task ID %d found in tag '%s'", task.ID, name)
				continue
			}
			seen[task.ID] = true
		}
	}
}

// checkDependencies resolves every well-formed dependency against the
// tasks of all tags. Malformed dependencies were already reported.
func checkDependencies(c *collector, file *TasksFile) {
	idx := file.Index()
	for _, name := range file.TagNames() {
		for i, task := range file.Tags[name].Tasks {
			taskPath := Path{"tags", name, "tasks", i}
			for j, dep := range task.Dependencies {
				if IsDependency(dep) && !idx.Has(DependencyTaskID(dep)) {
					c.add(taskPath.Child("dependencies", j), KindReference, "Task dependency '%s' not found in any tag", dep)
				}
			}
			for k, sub := range task.Subtasks {
				for j, dep := range sub.Dependencies {
					if IsDependency(dep) && !idx.Has(DependencyTaskID(dep)) {
						c.add(taskPath.Child("subtasks", k, "dependencies", j), KindReference, "Subtask dependency '%s' not found in any tag", dep)
					}
				}
			}
		}
	}
}
