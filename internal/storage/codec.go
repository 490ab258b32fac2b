package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/abatilo/todos/internal/todo"
)

// itemRecord is the persisted JSON form of a todo.
type itemRecord struct {
	ID        int64         `json:"id"`
	Task      string        `json:"task"`
	Status    todo.Status   `json:"status"`
	Priority  todo.Priority `json:"priority"`
	DueDate   string        `json:"dueDate"`
	CreatedAt int64         `json:"createdAt"`
	Deleted   yesNo         `json:"deleted"`

	// LegacyTS is the creation stamp as written by the browser version.
	LegacyTS int64 `json:"ts,omitempty"`
}

// yesNo encodes a boolean as "Y" or "N". Decoding also accepts JSON booleans.
type yesNo bool

func (b yesNo) MarshalJSON() ([]byte, error) {
	if b {
		return []byte(`"Y"`), nil
	}
	return []byte(`"N"`), nil
}

func (b *yesNo) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case `"Y"`, `"y"`, "true":
		*b = true
	case `"N"`, `"n"`, `""`, "false", "null":
		*b = false
	default:
		return fmt.Errorf("invalid deleted flag %s", data)
	}
	return nil
}

// EncodeSnapshot serializes items in order as a JSON array.
func EncodeSnapshot(items []todo.Item) ([]byte, error) {
	records := make([]itemRecord, len(items))
	for i, it := range items {
		records[i] = itemRecord{
			ID:        it.ID,
			Task:      it.Task,
			Status:    it.Status,
			Priority:  it.Priority,
			DueDate:   it.DueDate,
			CreatedAt: it.CreatedAt,
			Deleted:   yesNo(it.Deleted),
		}
	}
	return json.Marshal(records)
}

// DecodeSnapshot parses a persisted JSON array. Field names are matched
// case-insensitively, so the browser's "Deleted" key decodes as well.
func DecodeSnapshot(data []byte) ([]todo.Item, error) {
	var records []itemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	items := make([]todo.Item, 0, len(records))
	for _, r := range records {
		it := todo.Item{
			ID:        r.ID,
			Task:      r.Task,
			Status:    r.Status,
			Priority:  todo.NormalizePriority(r.Priority),
			DueDate:   r.DueDate,
			CreatedAt: r.CreatedAt,
			Deleted:   bool(r.Deleted),
		}
		if it.CreatedAt == 0 {
			it.CreatedAt = r.LegacyTS
		}
		// Status is strictly Active or Completed; removal is the Deleted flag alone.
		if !todo.IsValidStatus(it.Status) {
			if it.Status == "Deleted" {
				it.Deleted = true
			}
			it.Status = todo.StatusActive
		}
		items = append(items, it)
	}
	return items, nil
}
