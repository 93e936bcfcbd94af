// Package taskmasterdir provides constants and helpers for the .taskmaster
// directory layout of a project.
package taskmasterdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the project state directory.
	Dir = ".taskmaster"

	// TasksDir holds the tasks file (inside .taskmaster).
	TasksDir = "tasks"

	// DefaultTasksFile is the tasks file name (inside .taskmaster/tasks).
	DefaultTasksFile = "tasks.json"

	// DefaultStateFile is the state file name (inside .taskmaster).
	DefaultStateFile = "state.json"

	// DefaultConfigFile is the project config file name (inside .taskmaster).
	DefaultConfigFile = "config.json"
)

// DirPath returns the .taskmaster directory of a project.
func DirPath(projectDir string) string {
	return join(projectDir, Dir)
}

// TasksPath returns the tasks file of a project.
func TasksPath(projectDir string) string {
	return join(projectDir, Dir, TasksDir, DefaultTasksFile)
}

// StatePath returns the state file of a project.
func StatePath(projectDir string) string {
	return join(projectDir, Dir, DefaultStateFile)
}

// ConfigPath returns the project config file of a project.
func ConfigPath(projectDir string) string {
	return join(projectDir, Dir, DefaultConfigFile)
}

// Exists reports whether projectDir has a .taskmaster directory.
func Exists(projectDir string) bool {
	info, err := os.Stat(DirPath(projectDir))
	return err == nil && info.IsDir()
}

// Find walks up from start until it finds a directory containing
// .taskmaster. It returns the project directory and true, or "" and false.
func Find(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if Exists(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func join(projectDir string, elems ...string) string {
	if projectDir == "." || projectDir == "" {
		return filepath.Join(elems...)
	}
	return filepath.Join(append([]string{projectDir}, elems...)...)
}
