package output

import (
	"time"

	"github.com/abatilo/todos/internal/todo"
	"github.com/abatilo/todos/internal/view"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTodo(t todo.Item, now time.Time) string
	FormatList(result view.Result, now time.Time) string
	FormatCounts(c view.Counts) string
	FormatError(err error) string
	FormatMessage(msg string) string
}
