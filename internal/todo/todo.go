package todo

import (
	"strings"
	"time"

	"github.com/abatilo/todos/internal/dates"
)

// Status represents the completion state of a todo.
type Status string

const (
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
)

// Priority represents the importance level of a todo.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// PriorityRank returns the sort rank of a priority (higher = more important).
// Unknown priorities rank as Low.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// Item is a single task in the list.
type Item struct {
	ID        int64
	Task      string
	Status    Status
	Priority  Priority
	DueDate   string // YYYY-MM-DD
	CreatedAt int64  // Unix milliseconds
	Deleted   bool
}

// Created returns the creation timestamp as a time.Time.
func (i Item) Created() time.Time {
	return time.UnixMilli(i.CreatedAt)
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsValidPriority checks if a priority string is valid.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// NormalizePriority maps empty or unknown priorities to Low.
func NormalizePriority(p Priority) Priority {
	if IsValidPriority(p) {
		return p
	}
	return PriorityLow
}

// ParsePriority resolves user input case-insensitively. ok is false for
// anything outside Low, Medium and High.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return PriorityLow, false
}

// IsTaskValid reports whether text is non-empty after trimming.
func IsTaskValid(text string) bool {
	return strings.TrimSpace(text) != ""
}

// IsDateValid reports whether date parses and falls on or after the day of now.
func IsDateValid(date string, now time.Time) bool {
	return dates.IsOnOrAfterToday(date, now)
}
