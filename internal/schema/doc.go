// Package schema validates and normalizes Task Master project documents.
//
// Two documents are understood: the tasks file (.taskmaster/tasks/tasks.json)
// and the state file (.taskmaster/state.json). Both arrive as decoded JSON
// values (map[string]any, []any, float64 or json.Number, string, bool, nil)
// and leave either as a fully defaulted value or as an ordered list of
// Issues.
//
// # Tasks file
//
//	{
//	  "version": "1.0.0",
//	  "currentTag": "master",
//	  "tags": {
//	    "master": {
//	      "name": "master",
//	      "isActive": true,
//	      "tasks": [
//	        {
//	          "id": 1,
//	          "title": "Set up repo",
//	          "description": "Create the skeleton",
//	          "status": "pending",
//	          "priority": "high",
//	          "dependencies": ["2", "3.1"],
//	          "subtasks": [
//	            {"id": 1, "title": "...", "description": "...", "status": "done"}
//	          ]
//	        }
//	      ]
//	    }
//	  }
//	}
//
// # Validation passes
//
// Validation runs in two passes. The entity pass checks each subtask, task
// and tag on its own: field types, non-empty text, positive ids, enum
// values and id formats. The aggregate pass checks rules that need the
// whole document:
//
//   - currentTag names an existing tag
//   - exactly one tag is active
//   - task ids are unique within a tag (not across tags)
//   - every dependency's task id exists in some tag, active or not
//
// The state file has its own aggregate rules: currentTag and
// sessionState.lastActiveTag must be listed in availableTags, and
// lastSwitched may not be later than projectMetadata.updatedAt.
//
// Issues are collected, never fail-fast. Each carries a Path from the
// document root, a message and a Kind. Only a root that is not an object
// stops validation early.
//
// # Defaults
//
// Absent fields are filled from a defaults table before any check runs.
// A field that is present but null is not absent and is reported.
//
// Dependency cycles are not detected.
package schema
