package output

import (
	"encoding/json"
	"time"

	"github.com/abatilo/todos/internal/todo"
	"github.com/abatilo/todos/internal/view"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// todoJSON is the JSON representation of a todo.
type todoJSON struct {
	ID        int64  `json:"id"`
	Task      string `json:"task"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	DueDate   string `json:"dueDate"`
	CreatedAt string `json:"createdAt"`
	Deleted   bool   `json:"deleted"`
	Overdue   bool   `json:"overdue"`
}

func toTodoJSON(t todo.Item, now time.Time) todoJSON {
	return todoJSON{
		ID:        t.ID,
		Task:      t.Task,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		DueDate:   t.DueDate,
		CreatedAt: t.Created().Format(time.RFC3339),
		Deleted:   t.Deleted,
		Overdue:   view.IsOverdue(t, now),
	}
}

// countsJSON is the JSON representation of the header counts.
type countsJSON struct {
	Total   int `json:"total"`
	Overdue int `json:"overdue"`
}

// listJSON is the JSON representation of a projected view.
type listJSON struct {
	Items  []todoJSON `json:"items"`
	Counts countsJSON `json:"counts"`
}

// FormatTodo formats a single todo as JSON.
func (f *JSONFormatter) FormatTodo(t todo.Item, now time.Time) string {
	return marshalJSON(toTodoJSON(t, now))
}

// FormatList formats a projected view as JSON.
func (f *JSONFormatter) FormatList(result view.Result, now time.Time) string {
	items := make([]todoJSON, len(result.Items))
	for i, t := range result.Items {
		items[i] = toTodoJSON(t, now)
	}
	return marshalJSON(listJSON{
		Items:  items,
		Counts: countsJSON(result.Counts),
	})
}

// FormatCounts formats header counts as JSON.
func (f *JSONFormatter) FormatCounts(c view.Counts) string {
	return marshalJSON(countsJSON(c))
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
