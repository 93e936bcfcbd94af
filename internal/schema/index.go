package schema

import (
	"sort"
	"strconv"
)

// TaskRef locates a task inside a tasks file.
type TaskRef struct {
	Tag   string
	Index int
}

// TaskIndex maps task ids, in dependency form, to every place they occur
// across all tags. It is built once per validation pass so dependency
// resolution does not rescan the tag map.
type TaskIndex struct {
	byID map[string][]TaskRef
}

// NewTaskIndex indexes the tasks of every tag. Refs for one id are ordered
// by tag name, then by position within the tag.
func NewTaskIndex(tags map[string]Tag) *TaskIndex {
	idx := &TaskIndex{byID: make(map[string][]TaskRef)}
	for _, name := range sortedKeys(tags) {
		for i, task := range tags[name].Tasks {
			if task.ID <= 0 {
				continue
			}
			key := strconv.Itoa(task.ID)
			idx.byID[key] = append(idx.byID[key], TaskRef{Tag: name, Index: i})
		}
	}
	return idx
}

// Has reports whether any tag contains a task with the given id.
func (x *TaskIndex) Has(id string) bool {
	return len(x.byID[id]) > 0
}

// Lookup returns every occurrence of a task id.
func (x *TaskIndex) Lookup(id string) []TaskRef {
	return x.byID[id]
}

// Resolve returns the tasks a dependency points at. A subtask dependency
// resolves to its parent task id. Tag activity is not considered.
func (x *TaskIndex) Resolve(dep string) []TaskRef {
	return x.byID[DependencyTaskID(dep)]
}

// Len returns the number of distinct task ids.
func (x *TaskIndex) Len() int {
	return len(x.byID)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
