// Package ui provides the optional terminal browser for a project.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskmaster-go/internal/project"
	"github.com/nibzard/taskmaster-go/internal/query"
	"github.com/nibzard/taskmaster-go/internal/schema"
)

// Loader reloads the project shown by the TUI.
type Loader func() (*project.Project, error)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithRefreshInterval sets how often the project is reloaded from disk.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(m *tuiModel) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

// RunTUI starts the browser for the project returned by load.
func RunTUI(ctx context.Context, load Loader, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(load, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	activeStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	issueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

type tuiModel struct {
	load         Loader
	project      *project.Project
	loadErr      error
	tags         []string
	tagIndex     int
	filter       schema.Status
	showIssues   bool
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(load Loader, opts ...TUIOption) *tuiModel {
	m := &tuiModel{load: load, tickInterval: 2 * time.Second}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "i":
			m.showIssues = !m.showIssues
		case "h", "?":
			m.showHelp = !m.showHelp
		case "tab", "right", "l":
			if len(m.tags) > 0 {
				m.tagIndex = (m.tagIndex + 1) % len(m.tags)
			}
		case "shift+tab", "left":
			if len(m.tags) > 0 {
				m.tagIndex = (m.tagIndex + len(m.tags) - 1) % len(m.tags)
			}
		case "1":
			m.filter = schema.StatusPending
		case "2":
			m.filter = schema.StatusInProgress
		case "3":
			m.filter = schema.StatusBlocked
		case "4":
			m.filter = schema.StatusDone
		case "0":
			m.filter = ""
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.project)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.loadErr != nil {
		b.WriteString(issueStyle.Render("Error loading project:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.project == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.showIssues || m.project.Tasks == nil || m.project.Tasks.Tasks == nil {
		writeIssues(&b, m.project)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	file := m.project.Tasks.Tasks
	writeTags(&b, file, m.tags, m.tagIndex)
	if m.filter != "" {
		fmt.Fprintf(&b, "Filter: %s (0 to clear)\n\n", m.filter)
	}
	writeTasks(&b, file, m.currentTag(), m.filter)
	if n := m.project.IssueCount() + len(m.project.Warnings); n > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d issue(s) or warning(s), press i to view", n)) + "\n\n")
	}
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	p, err := m.load()
	if err != nil {
		m.loadErr = err
		m.project = nil
		return
	}
	m.loadErr = nil
	m.project = p

	previous := m.currentTag()
	m.tags = nil
	if p.Tasks == nil || p.Tasks.Tasks == nil {
		return
	}
	m.tags = p.Tasks.Tasks.TagNames()
	m.tagIndex = 0
	target := previous
	if target == "" {
		target = p.Tasks.Tasks.CurrentTag
	}
	for i, name := range m.tags {
		if name == target {
			m.tagIndex = i
		}
	}
}

func (m *tuiModel) currentTag() string {
	if m.tagIndex < len(m.tags) {
		return m.tags[m.tagIndex]
	}
	return ""
}

func writeTitle(b *strings.Builder, p *project.Project) {
	title := "Task Master"
	if p != nil {
		title += " - " + p.Dir
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
}

func writeTags(b *strings.Builder, file *schema.TasksFile, tags []string, selected int) {
	b.WriteString(headingStyle.Render("Tags") + "\n\n  ")
	for i, name := range tags {
		label := fmt.Sprintf("%s (%d)", name, len(file.Tags[name].Tasks))
		if file.Tags[name].IsActive {
			label += "*"
		}
		if i == selected {
			label = activeStyle.Render("[" + label + "]")
		}
		b.WriteString(label + "  ")
	}
	b.WriteString("\n\n")
}

func writeTasks(b *strings.Builder, file *schema.TasksFile, tag string, filter schema.Status) {
	all := query.Apply(file, query.Filter{Tags: []string{tag}})
	counts := query.Counts(all)
	b.WriteString(headingStyle.Render("Task Overview") + "\n\n")
	fmt.Fprintf(b, "  Pending: %d  In progress: %d  Blocked: %d  Done: %d\n\n",
		counts[schema.StatusPending],
		counts[schema.StatusInProgress],
		counts[schema.StatusBlocked],
		counts[schema.StatusDone],
	)

	f := query.Filter{Tags: []string{tag}}
	if filter != "" {
		f.Statuses = []schema.Status{filter}
	}
	entries := query.Apply(file, f)
	b.WriteString(headingStyle.Render("Tasks") + "\n\n")
	if len(entries) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	ready := map[int]bool{}
	for _, e := range query.Ready(file) {
		if e.Tag == tag {
			ready[e.Task.ID] = true
		}
	}
	for _, e := range entries {
		b.WriteString(formatTask(e.Task, ready[e.Task.ID]) + "\n")
		for _, sub := range e.Task.Subtasks {
			fmt.Fprintf(b, "      %s %d.%d %s\n", statusIcon(sub.Status), e.Task.ID, sub.ID, sub.Title)
		}
	}
	b.WriteString("\n")
}

func writeIssues(b *strings.Builder, p *project.Project) {
	b.WriteString(headingStyle.Render("Issues") + "\n\n")
	if p.IssueCount() == 0 && len(p.Warnings) == 0 {
		b.WriteString("  No issues.\n\n")
		return
	}
	for _, w := range p.Warnings {
		b.WriteString("  " + warnStyle.Render("warning: "+w) + "\n")
	}
	for _, r := range p.Reports() {
		for _, w := range r.Warnings {
			b.WriteString("  " + warnStyle.Render("warning: "+w) + "\n")
		}
		for _, issue := range r.Issues {
			fmt.Fprintf(b, "  %s %s %s\n", dimStyle.Render(string(r.Slot)), issueStyle.Render(issue.Path.String()), issue.Message)
		}
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString(headingStyle.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Reload from disk\n")
	b.WriteString("  tab, right   Next tag\n")
	b.WriteString("  shift+tab    Previous tag\n")
	b.WriteString("  i            Toggle issues view\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by pending\n")
	b.WriteString("  2            Filter by in-progress\n")
	b.WriteString("  3            Filter by blocked\n")
	b.WriteString("  4            Filter by done\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(dimStyle.Render(fmt.Sprintf("Press h for help | q to quit | Reloading every %s", interval)) + "\n")
}

func statusIcon(s schema.Status) string {
	switch s {
	case schema.StatusInProgress:
		return ">"
	case schema.StatusBlocked:
		return "!"
	case schema.StatusDone:
		return "x"
	}
	return " "
}

func formatTask(t schema.Task, ready bool) string {
	line := fmt.Sprintf("  %s [%d] %s", statusIcon(t.Status), t.ID, t.Title)
	if t.Priority != "" {
		line += " (" + string(t.Priority) + ")"
	}
	if len(t.Dependencies) > 0 {
		line += " <- " + strings.Join(t.Dependencies, ", ")
	}
	if ready {
		line += " [ready]"
	}
	return line
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
