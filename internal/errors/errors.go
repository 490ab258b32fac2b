//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// TodoNotFoundError indicates the ID doesn't match any todo.
type TodoNotFoundError struct {
	ID int64
}

func (e TodoNotFoundError) Error() string {
	return fmt.Sprintf("todo not found: %d", e.ID)
}

// InvalidTaskError indicates the task text is empty after trimming.
type InvalidTaskError struct{}

func (e InvalidTaskError) Error() string {
	return "task description is required"
}

// InvalidDueDateError indicates a due date that doesn't parse or lies in the past.
type InvalidDueDateError struct {
	Value string
}

func (e InvalidDueDateError) Error() string {
	return fmt.Sprintf("invalid due date: %q (want YYYY-MM-DD, today or later)", e.Value)
}

// InvalidPriorityError indicates an invalid priority value.
type InvalidPriorityError struct {
	Value string
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %s (valid: low, medium, high)", e.Value)
}

// InvalidFilterError indicates an unknown status filter.
type InvalidFilterError struct {
	Value string
}

func (e InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid status filter: %s (valid: all, active, completed)", e.Value)
}

// InvalidSortKeyError indicates an unknown sort column.
type InvalidSortKeyError struct {
	Value string
}

func (e InvalidSortKeyError) Error() string {
	return fmt.Sprintf("invalid sort key: %s (valid: task, status, priority, dueDate, createdAt)", e.Value)
}

// KeyNotFoundError indicates the storage backend holds no value for the key.
type KeyNotFoundError struct {
	Key string
}

func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("storage key not found: %s", e.Key)
}

// UnknownBackendError indicates a storage backend name that isn't supported.
type UnknownBackendError struct {
	Name string
}

func (e UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend: %s (valid: file, bolt, sqlite, memory)", e.Name)
}

// SaveError indicates a mutation could not be persisted. The change was not applied.
type SaveError struct {
	Op  string
	Err error
}

func (e SaveError) Error() string {
	return fmt.Sprintf("%s not saved: %v", e.Op, e.Err)
}

func (e SaveError) Unwrap() error {
	return e.Err
}

// CancelledError indicates the user declined a confirmation prompt.
type CancelledError struct{}

func (e CancelledError) Error() string {
	return "cancelled"
}
