//nolint:testpackage // Tests require internal access for thorough testing
package output

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abatilo/todos/internal/todo"
	"github.com/abatilo/todos/internal/view"
)

var now = time.Date(2025, 6, 15, 14, 0, 0, 0, time.Local)

func sample() []todo.Item {
	return []todo.Item{
		{ID: 1, Task: "Buy milk", Status: todo.StatusActive, Priority: todo.PriorityHigh, DueDate: "2025-06-10", CreatedAt: 1},
		{ID: 2, Task: "Pay bills", Status: todo.StatusCompleted, Priority: todo.PriorityLow, DueDate: "2025-06-20", CreatedAt: 2, Deleted: true},
	}
}

func TestHumanFormatCounts(t *testing.T) {
	f := NewHumanFormatter()
	tests := []struct {
		counts view.Counts
		want   string
		absent string
	}{
		{view.Counts{Total: 1}, "1 item in your list", "overdue"},
		{view.Counts{Total: 3, Overdue: 1}, "(1 task overdue)", ""},
		{view.Counts{Total: 3, Overdue: 2}, "(2 tasks overdue)", ""},
		{view.Counts{}, "0 items in your list", "overdue"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := f.FormatCounts(tt.counts)
			if !strings.Contains(got, tt.want) {
				t.Errorf("FormatCounts() = %q, want it to contain %q", got, tt.want)
			}
			if tt.absent != "" && strings.Contains(got, tt.absent) {
				t.Errorf("FormatCounts() = %q, should not contain %q", got, tt.absent)
			}
		})
	}
}

func TestHumanFormatList(t *testing.T) {
	f := NewHumanFormatter()
	items := sample()
	result := view.Result{Items: items, Counts: view.CountsOf(items, now)}

	got := f.FormatList(result, now)
	for _, want := range []string{"1 item in your list", "[1] Buy milk", "[X]", "(deleted)", "2025-06-10"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatList() = %q, want it to contain %q", got, want)
		}
	}

	empty := f.FormatList(view.Result{}, now)
	if !strings.Contains(empty, "No todos found.") {
		t.Errorf("FormatList(empty) = %q", empty)
	}
}

func TestHumanFormatTodo(t *testing.T) {
	got := NewHumanFormatter().FormatTodo(sample()[1], now)
	for _, want := range []string{"[2] Pay bills", "Status:   Completed", "Priority: 🧘 Low", "Deleted:  yes"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatTodo() = %q, want it to contain %q", got, want)
		}
	}
}

func TestJSONFormatList(t *testing.T) {
	items := sample()
	result := view.Result{Items: items, Counts: view.CountsOf(items, now)}

	var decoded listJSON
	if err := json.Unmarshal([]byte(NewJSONFormatter().FormatList(result, now)), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(decoded.Items))
	}
	if !decoded.Items[0].Overdue || decoded.Items[1].Overdue {
		t.Errorf("overdue flags = %v/%v, want true/false", decoded.Items[0].Overdue, decoded.Items[1].Overdue)
	}
	if decoded.Counts.Total != 1 || decoded.Counts.Overdue != 1 {
		t.Errorf("counts = %+v, want total 1 overdue 1", decoded.Counts)
	}
}

func TestJSONFormatError(t *testing.T) {
	got := NewJSONFormatter().FormatError(errors.New("boom"))
	if strings.TrimSpace(got) != "{\n  \"error\": \"boom\"\n}" {
		t.Errorf("FormatError() = %q", got)
	}
}
