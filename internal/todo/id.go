package todo

import "time"

// GenerateID derives a new ID from the creation time in Unix milliseconds.
// IDs from one generator never repeat: when the clock has not advanced past
// last, the result is last+1.
func GenerateID(createdAt time.Time, last int64) int64 {
	id := createdAt.UnixMilli()
	if id <= last {
		return last + 1
	}
	return id
}

// MaxID returns the largest ID in items, or zero for an empty slice.
func MaxID(items []Item) int64 {
	var highest int64
	for _, it := range items {
		highest = max(highest, it.ID)
	}
	return highest
}
