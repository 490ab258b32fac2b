// Package view derives what the user sees from the todo list and the
// transient view state. Nothing here mutates the list.
package view

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/abatilo/todos/internal/dates"
	todoerrors "github.com/abatilo/todos/internal/errors"
	"github.com/abatilo/todos/internal/todo"
)

// Filter selects todos by status.
type Filter string

const (
	FilterAll       Filter = "All"
	FilterActive    Filter = "Active"
	FilterCompleted Filter = "Completed"
)

// SortKey names the column to sort by. The zero value keeps insertion order.
type SortKey string

const (
	SortNone      SortKey = ""
	SortTask      SortKey = "task"
	SortStatus    SortKey = "status"
	SortPriority  SortKey = "priority"
	SortDueDate   SortKey = "dueDate"
	SortCreatedAt SortKey = "createdAt"
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// SortConfig is the current sort column and direction.
type SortConfig struct {
	Key       SortKey
	Direction Direction
}

// State holds the user's search, filter and sort choices for a session.
type State struct {
	Search         string
	Status         Filter
	IncludeDeleted bool
	Sort           SortConfig
}

// NewState returns the state a session starts with.
func NewState() State {
	return State{Status: FilterAll, Sort: SortConfig{Direction: Ascending}}
}

// RequestSort selects key as the sort column. Choosing the current key while
// ascending flips to descending; every other choice sorts ascending.
func (s *State) RequestSort(key SortKey) {
	direction := Ascending
	if s.Sort.Key == key && s.Sort.Direction == Ascending {
		direction = Descending
	}
	s.Sort = SortConfig{Key: key, Direction: direction}
}

// Counts are the header totals over the whole list, independent of the view.
type Counts struct {
	Total   int
	Overdue int
}

// Result is the projected view.
type Result struct {
	Items  []todo.Item
	Counts Counts
}

// Project filters, searches and sorts items according to state. Counts always
// cover the unfiltered list.
func Project(items []todo.Item, state State, now time.Time) Result {
	return Result{
		Items:  Visible(items, state),
		Counts: CountsOf(items, now),
	}
}

// Visible applies, in order: the deletion filter, the status filter, the
// search filter and the sort.
func Visible(items []todo.Item, state State) []todo.Item {
	query := strings.ToLower(strings.TrimSpace(state.Search))

	out := make([]todo.Item, 0, len(items))
	for _, it := range items {
		if it.Deleted && !state.IncludeDeleted {
			continue
		}
		if state.Status != "" && state.Status != FilterAll && string(it.Status) != string(state.Status) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(it.Task), query) {
			continue
		}
		out = append(out, it)
	}

	if state.Sort.Key == SortNone {
		return out
	}
	compare := comparator(state.Sort.Key)
	if state.Sort.Direction == Descending {
		asc := compare
		compare = func(a, b todo.Item) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

// IsOverdue reports whether an undeleted, uncompleted todo was due before the day of now.
func IsOverdue(it todo.Item, now time.Time) bool {
	return it.Status != todo.StatusCompleted && !it.Deleted && dates.IsBeforeToday(it.DueDate, now)
}

// CountsOf totals the todos that are not deleted and those that are overdue.
func CountsOf(items []todo.Item, now time.Time) Counts {
	var c Counts
	for _, it := range items {
		if it.Deleted {
			continue
		}
		c.Total++
		if IsOverdue(it, now) {
			c.Overdue++
		}
	}
	return c
}

func comparator(key SortKey) func(a, b todo.Item) int {
	switch key {
	case SortTask:
		return func(a, b todo.Item) int { return cmp.Compare(a.Task, b.Task) }
	case SortStatus:
		return func(a, b todo.Item) int { return cmp.Compare(a.Status, b.Status) }
	case SortPriority:
		return func(a, b todo.Item) int {
			return cmp.Compare(todo.PriorityRank(a.Priority), todo.PriorityRank(b.Priority))
		}
	case SortDueDate:
		return compareDueDates
	case SortCreatedAt:
		return func(a, b todo.Item) int { return cmp.Compare(a.CreatedAt, b.CreatedAt) }
	default:
		return func(todo.Item, todo.Item) int { return 0 }
	}
}

// compareDueDates orders chronologically; unparseable dates sort first.
func compareDueDates(a, b todo.Item) int {
	da, errA := dates.Parse(a.DueDate)
	db, errB := dates.Parse(b.DueDate)
	switch {
	case errA != nil && errB != nil:
		return cmp.Compare(a.DueDate, b.DueDate)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	default:
		return da.Compare(db)
	}
}

// ParseFilter resolves a status filter name case-insensitively.
func ParseFilter(s string) (Filter, error) {
	for _, f := range []Filter{FilterAll, FilterActive, FilterCompleted} {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return FilterAll, todoerrors.InvalidFilterError{Value: s}
}

// ParseSortKey resolves a sort column name case-insensitively. Empty means no sort.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range []SortKey{SortNone, SortTask, SortStatus, SortPriority, SortDueDate, SortCreatedAt} {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return SortNone, todoerrors.InvalidSortKeyError{Value: s}
}
