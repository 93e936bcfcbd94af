package schema

import (
	"slices"
	"time"
)

// Default values shared by the state and tasks documents.
const (
	DefaultTag        = "master"
	DefaultVersion    = "1.0.0"
	DefaultTasksPath  = ".taskmaster/tasks/tasks.json"
	DefaultConfigPath = ".taskmaster/config.json"
	MinItemsPerPage   = 5
	MaxItemsPerPage   = 100
)

var (
	themes      = []string{"light", "dark", "system"}
	views       = []string{"grid", "list", "kanban"}
	sortFields  = []string{"id", "priority", "status", "title", "createdAt"}
	sortOrders  = []string{"asc", "desc"}
	groupFields = []string{"none", "status", "priority", "tag"}
)

// AppConfig holds application-wide settings.
type AppConfig struct {
	Theme         string `json:"theme"`
	Language      string `json:"language"`
	AutoSave      bool   `json:"autoSave"`
	Notifications bool   `json:"notifications"`
	DebugMode     bool   `json:"debugMode"`
}

// UserPreferences holds how the user likes tasks to be presented.
type UserPreferences struct {
	DefaultView        string `json:"defaultView"`
	ItemsPerPage       int    `json:"itemsPerPage"`
	ShowCompletedTasks bool   `json:"showCompletedTasks"`
	SortBy             string `json:"sortBy"`
	SortOrder          string `json:"sortOrder"`
	GroupBy            string `json:"groupBy"`
}

// SessionState records where the user left off.
type SessionState struct {
	LastActiveTask string         `json:"lastActiveTask,omitempty"`
	LastActiveTag  string         `json:"lastActiveTag"`
	OpenTasks      []string       `json:"openTasks"`
	CollapsedTasks []string       `json:"collapsedTasks"`
	SearchQuery    string         `json:"searchQuery"`
	ActiveFilters  map[string]any `json:"activeFilters"`
}

// ProjectMetadata describes the project a tasks or state file belongs to.
type ProjectMetadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	TasksPath   string `json:"tasksPath"`
	ConfigPath  string `json:"configPath"`
}

// State is the session and application state document.
type State struct {
	CurrentTag           string          `json:"currentTag"`
	LastSwitched         string          `json:"lastSwitched,omitempty"`
	MigrationNoticeShown bool            `json:"migrationNoticeShown"`
	AppConfig            AppConfig       `json:"appConfig"`
	UserPreferences      UserPreferences `json:"userPreferences"`
	SessionState         SessionState    `json:"sessionState"`
	ProjectMetadata      ProjectMetadata `json:"projectMetadata"`
	AvailableTags        []string        `json:"availableTags"`
	Version              string          `json:"version"`
}

func appConfigDefaults() map[string]any {
	return map[string]any{
		"theme":         "system",
		"language":      "en",
		"autoSave":      true,
		"notifications": true,
		"debugMode":     false,
	}
}

func userPreferencesDefaults() map[string]any {
	return map[string]any{
		"defaultView":        "grid",
		"itemsPerPage":       float64(20),
		"showCompletedTasks": true,
		"sortBy":             "id",
		"sortOrder":          "asc",
		"groupBy":            "none",
	}
}

func sessionStateDefaults() map[string]any {
	return map[string]any{
		"lastActiveTag":  DefaultTag,
		"openTasks":      []any{},
		"collapsedTasks": []any{},
		"searchQuery":    "",
		"activeFilters":  map[string]any{},
	}
}

func projectMetadataDefaults() map[string]any {
	return map[string]any{
		"version":    DefaultVersion,
		"tasksPath":  DefaultTasksPath,
		"configPath": DefaultConfigPath,
	}
}

func stateDefaults() map[string]any {
	return map[string]any{
		"currentTag":           DefaultTag,
		"migrationNoticeShown": false,
		"appConfig":            map[string]any{},
		"userPreferences":      map[string]any{},
		"sessionState":         map[string]any{},
		"availableTags":        []any{DefaultTag},
		"version":              DefaultVersion,
	}
}

func validateAppConfig(c *collector, obj map[string]any, path Path) AppConfig {
	f := applyDefaults(obj, appConfigDefaults())
	var cfg AppConfig
	cfg.Theme, _ = f.enum(c, path, "theme", themes)
	cfg.Language, _ = f.str(c, path, "language", true)
	cfg.AutoSave, _ = f.boolean(c, path, "autoSave")
	cfg.Notifications, _ = f.boolean(c, path, "notifications")
	cfg.DebugMode, _ = f.boolean(c, path, "debugMode")
	return cfg
}

func validateUserPreferences(c *collector, obj map[string]any, path Path) UserPreferences {
	f := applyDefaults(obj, userPreferencesDefaults())
	var prefs UserPreferences
	prefs.DefaultView, _ = f.enum(c, path, "defaultView", views)
	if n, ok := f.integer(c, path, "itemsPerPage"); ok {
		switch {
		case n < MinItemsPerPage:
			c.add(path.Child("itemsPerPage"), KindRange, "Number must be greater than or equal to %d", MinItemsPerPage)
		case n > MaxItemsPerPage:
			c.add(path.Child("itemsPerPage"), KindRange, "Number must be less than or equal to %d", MaxItemsPerPage)
		default:
			prefs.ItemsPerPage = n
		}
	}
	prefs.ShowCompletedTasks, _ = f.boolean(c, path, "showCompletedTasks")
	prefs.SortBy, _ = f.enum(c, path, "sortBy", sortFields)
	prefs.SortOrder, _ = f.enum(c, path, "sortOrder", sortOrders)
	prefs.GroupBy, _ = f.enum(c, path, "groupBy", groupFields)
	return prefs
}

func validateSessionState(c *collector, obj map[string]any, path Path) SessionState {
	f := applyDefaults(obj, sessionStateDefaults())
	var ss SessionState
	ss.LastActiveTask, _ = f.str(c, path, "lastActiveTask", false)
	ss.LastActiveTag, _ = f.str(c, path, "lastActiveTag", true)
	ss.OpenTasks, _ = f.stringList(c, path, "openTasks")
	ss.CollapsedTasks, _ = f.stringList(c, path, "collapsedTasks")
	ss.SearchQuery, _ = f.str(c, path, "searchQuery", true)
	ss.ActiveFilters = map[string]any{}
	if filters, ok := f.object(c, path, "activeFilters", true); ok {
		for k, v := range filters {
			ss.ActiveFilters[k] = v
		}
	}
	return ss
}

func validateProjectMetadata(c *collector, obj map[string]any, path Path) ProjectMetadata {
	f := applyDefaults(obj, projectMetadataDefaults())
	var md ProjectMetadata
	md.Name, _ = f.nonEmpty(c, path, "name", "Project name cannot be empty")
	md.Version, _ = f.str(c, path, "version", true)
	md.Description, _ = f.str(c, path, "description", false)
	md.Author, _ = f.str(c, path, "author", false)
	md.CreatedAt, _ = f.datetime(c, path, "createdAt", true)
	md.UpdatedAt, _ = f.datetime(c, path, "updatedAt", true)
	md.TasksPath, _ = f.str(c, path, "tasksPath", true)
	md.ConfigPath, _ = f.str(c, path, "configPath", true)
	return md
}

// leaf runs one of the leaf validators against a standalone document.
func leaf[T any](v any, validate func(*collector, map[string]any, Path) T) Result[T] {
	c := &collector{}
	obj, ok := asObject(v)
	if !ok {
		c.add(nil, KindDocument, "Expected object, received %s", typeName(v))
		return finish[T](nil, c)
	}
	value := validate(c, obj, nil)
	return finish(&value, c)
}

// ValidateAppConfig validates an application configuration object.
func ValidateAppConfig(v any) Result[AppConfig] { return leaf(v, validateAppConfig) }

// ValidateUserPreferences validates a user preferences object.
func ValidateUserPreferences(v any) Result[UserPreferences] {
	return leaf(v, validateUserPreferences)
}

// ValidateSessionState validates a session state object.
func ValidateSessionState(v any) Result[SessionState] { return leaf(v, validateSessionState) }

// ParseAppConfig returns the normalized application configuration.
func ParseAppConfig(v any) (*AppConfig, error) { return unwrap(ValidateAppConfig(v)) }

// ParseUserPreferences returns the normalized user preferences.
func ParseUserPreferences(v any) (*UserPreferences, error) {
	return unwrap(ValidateUserPreferences(v))
}

// ParseSessionState returns the normalized session state.
func ParseSessionState(v any) (*SessionState, error) { return unwrap(ValidateSessionState(v)) }

// ValidateProjectMetadata validates a project metadata object.
func ValidateProjectMetadata(v any) Result[ProjectMetadata] {
	return leaf(v, validateProjectMetadata)
}

// ParseProjectMetadata returns the normalized project metadata or the
// Issues describing why v is not valid.
func ParseProjectMetadata(v any) (*ProjectMetadata, error) {
	return unwrap(ValidateProjectMetadata(v))
}

// ValidateState validates a state document. Nested objects are validated
// first; the cross-field rules then run against whichever fields parsed.
func ValidateState(v any) Result[State] {
	c := &collector{}
	obj, ok := asObject(v)
	if !ok {
		c.add(nil, KindDocument, "Expected object, received %s", typeName(v))
		return finish[State](nil, c)
	}
	f := applyDefaults(obj, stateDefaults())
	st := &State{}

	if o, ok := f.object(c, nil, "appConfig", true); ok {
		st.AppConfig = validateAppConfig(c, o, Path{"appConfig"})
	}
	if o, ok := f.object(c, nil, "userPreferences", true); ok {
		st.UserPreferences = validateUserPreferences(c, o, Path{"userPreferences"})
	}
	if o, ok := f.object(c, nil, "sessionState", true); ok {
		st.SessionState = validateSessionState(c, o, Path{"sessionState"})
	}
	if o, ok := f.object(c, nil, "projectMetadata", true); ok {
		st.ProjectMetadata = validateProjectMetadata(c, o, Path{"projectMetadata"})
	}

	currentTag, currentOK := f.str(c, nil, "currentTag", true)
	st.CurrentTag = currentTag
	st.LastSwitched, _ = f.datetime(c, nil, "lastSwitched", false)
	st.MigrationNoticeShown, _ = f.boolean(c, nil, "migrationNoticeShown")
	tags, tagsOK := f.stringList(c, nil, "availableTags")
	st.AvailableTags = tags
	st.Version, _ = f.str(c, nil, "version", true)

	if tagsOK {
		if currentOK && !slices.Contains(tags, currentTag) {
			c.add(Path{"currentTag"}, KindReference, "Current tag '%s' must be in available tags", currentTag)
		}
		last := st.SessionState.LastActiveTag
		if last != "" && !slices.Contains(tags, last) {
			c.add(Path{"sessionState", "lastActiveTag"}, KindReference, "Last active tag '%s' must be in available tags", last)
		}
	}
	if st.LastSwitched != "" && st.ProjectMetadata.UpdatedAt != "" {
		if lastSwitchedAfter(st.LastSwitched, st.ProjectMetadata.UpdatedAt) {
			c.add(Path{"lastSwitched"}, KindTemporal, "Last switched time cannot be after project updated time")
		}
	}
	return finish(st, c)
}

// ParseState returns the normalized state or the Issues describing why v is
// not a valid state document.
func ParseState(v any) (*State, error) {
	return unwrap(ValidateState(v))
}

func lastSwitchedAfter(lastSwitched, updatedAt string) bool {
	ls, ok1 := ParseDatetime(lastSwitched)
	ua, ok2 := ParseDatetime(updatedAt)
	return ok1 && ok2 && ls.After(ua)
}

// Switched returns the lastSwitched time, if any.
func (s *State) Switched() (time.Time, bool) {
	if s.LastSwitched == "" {
		return time.Time{}, false
	}
	return ParseDatetime(s.LastSwitched)
}
