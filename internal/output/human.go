package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/todos/internal/todo"
	"github.com/abatilo/todos/internal/view"
)

//nolint:gochecknoglobals // styles are immutable
var (
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Italic(true)
	deletedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// FormatTodo formats a single todo for display.
func (f *HumanFormatter) FormatTodo(t todo.Item, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%d] %s\n", t.ID, t.Task))
	sb.WriteString(fmt.Sprintf("  Status:   %s\n", t.Status))
	sb.WriteString(fmt.Sprintf("  Priority: %s %s\n", f.priorityIcon(t.Priority), t.Priority))
	sb.WriteString(fmt.Sprintf("  Due:      %s\n", f.dueDate(t, now)))
	sb.WriteString(fmt.Sprintf("  Created:  %s\n", t.Created().Format("2006-01-02 15:04")))
	if t.Deleted {
		sb.WriteString("  Deleted:  yes\n")
	}

	return sb.String()
}

// FormatList formats the header counts followed by one line per visible todo.
func (f *HumanFormatter) FormatList(result view.Result, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(f.FormatCounts(result.Counts))

	if len(result.Items) == 0 {
		sb.WriteString("No todos found.\n")
		return sb.String()
	}
	for _, t := range result.Items {
		sb.WriteString(f.formatTodoLine(t, now))
	}
	return sb.String()
}

// FormatCounts formats the list header, e.g. "3 items in your list (1 task overdue)".
func (f *HumanFormatter) FormatCounts(c view.Counts) string {
	line := fmt.Sprintf("%d %s in your list", c.Total, plural(c.Total, "item", "items"))
	if c.Overdue > 0 {
		line += overdueStyle.Render(fmt.Sprintf(" (%d %s overdue)", c.Overdue, plural(c.Overdue, "task", "tasks")))
	}
	return headerStyle.Render(line) + "\n"
}

// formatTodoLine formats a single todo as a compact one-liner.
func (f *HumanFormatter) formatTodoLine(t todo.Item, now time.Time) string {
	line := fmt.Sprintf("%s %s [%d] %s  due %s",
		f.statusIcon(t.Status), f.priorityIcon(t.Priority), t.ID, t.Task, f.dueDate(t, now))
	if t.Deleted {
		line = deletedStyle.Render(line) + " (deleted)"
	}
	return line + "\n"
}

func (f *HumanFormatter) dueDate(t todo.Item, now time.Time) string {
	if view.IsOverdue(t, now) {
		return overdueStyle.Render(t.DueDate)
	}
	return t.DueDate
}

func (f *HumanFormatter) statusIcon(s todo.Status) string {
	switch s {
	case todo.StatusActive:
		return "[ ]"
	case todo.StatusCompleted:
		return "[X]"
	default:
		return "[?]"
	}
}

func (f *HumanFormatter) priorityIcon(p todo.Priority) string {
	switch p {
	case todo.PriorityHigh:
		return "🔥"
	case todo.PriorityMedium:
		return "⚠️"
	default:
		return "🧘"
	}
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
