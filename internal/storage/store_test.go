//nolint:testpackage // Tests require internal access for thorough testing
package storage

import (
	"errors"
	"io"
	"testing"
	"time"

	todoerrors "github.com/abatilo/todos/internal/errors"
	"github.com/abatilo/todos/internal/todo"
)

// failingBackend wraps a MemoryBackend and rejects writes while failWrites is set.
type failingBackend struct {
	*MemoryBackend
	failWrites bool
	writes     int
}

func (f *failingBackend) Set(key string, value []byte) error {
	if f.failWrites {
		return io.ErrShortWrite
	}
	f.writes++
	return f.MemoryBackend.Set(key, value)
}

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

func newTestStore(t *testing.T, backend Backend) *Store {
	t.Helper()
	s, err := NewStore(backend, StoreOptions{
		Key: "todoList",
		Now: fixedClock(time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)),
	})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func TestAddAssignsFreshActiveTodo(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend())

	first, err := s.Add("  Buy milk  ", "2025-06-16", todo.PriorityHigh)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	second, err := s.Add("Pay bills", "2025-06-20", todo.Priority("Urgent"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if first.Task != "Buy milk" {
		t.Errorf("Task = %q, want trimmed %q", first.Task, "Buy milk")
	}
	if first.Status != todo.StatusActive || first.Deleted {
		t.Errorf("new todo = %+v, want Active and not deleted", first)
	}
	if second.Priority != todo.PriorityLow {
		t.Errorf("Priority = %q, want %q for unknown input", second.Priority, todo.PriorityLow)
	}
	if first.ID == second.ID {
		t.Errorf("IDs should differ, both %d", first.ID)
	}
	if first.CreatedAt == 0 {
		t.Error("CreatedAt should be stamped")
	}

	items := s.List()
	if len(items) != 2 {
		t.Fatalf("List length = %d, want 2", len(items))
	}
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Error("List should preserve insertion order")
	}
}

func TestStatusRoundTrip(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend())
	added, err := s.Add("Write report", "2025-06-20", todo.PriorityMedium)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err = s.Complete(added.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	got, _ := s.Get(added.ID)
	if got.Status != todo.StatusCompleted {
		t.Errorf("Status = %q, want %q", got.Status, todo.StatusCompleted)
	}

	if err = s.Reopen(added.ID); err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	got, _ = s.Get(added.ID)
	if got != added {
		t.Errorf("after complete+reopen = %+v, want %+v", got, added)
	}
}

func TestSoftDeleteRestoreKeepsStatus(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend())
	added, _ := s.Add("Call mom", "2025-06-20", todo.PriorityLow)
	if err := s.Complete(added.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	before, _ := s.Get(added.ID)

	if err := s.SoftDelete(added.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	deleted, ok := s.Get(added.ID)
	if !ok {
		t.Fatal("soft-deleted todo must be retained")
	}
	if !deleted.Deleted || deleted.Status != todo.StatusCompleted {
		t.Errorf("after SoftDelete = %+v, want deleted with status kept", deleted)
	}

	if err := s.Restore(added.ID); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	restored, _ := s.Get(added.ID)
	if restored != before {
		t.Errorf("after restore = %+v, want %+v", restored, before)
	}
}

func TestUnknownIDIsNoOp(t *testing.T) {
	backend := &failingBackend{MemoryBackend: NewMemoryBackend()}
	s := newTestStore(t, backend)

	notified := 0
	s.Subscribe(func(Change) { notified++ })

	ops := map[string]func(int64) error{
		"complete": s.Complete,
		"reopen":   s.Reopen,
		"delete":   s.SoftDelete,
		"restore":  s.Restore,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(424242); err != nil {
				t.Errorf("%s on unknown id returned %v, want nil", name, err)
			}
		})
	}

	if backend.writes != 0 {
		t.Errorf("writes = %d, want 0", backend.writes)
	}
	if notified != 0 {
		t.Errorf("notifications = %d, want 0", notified)
	}
}

func TestSubscribersReceiveActiveTotal(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend())

	var first, second []Change
	unsubscribe := s.Subscribe(func(c Change) { first = append(first, c) })
	s.Subscribe(func(c Change) { second = append(second, c) })

	a, _ := s.Add("one", "2025-06-20", todo.PriorityLow)
	s.Add("two", "2025-06-20", todo.PriorityLow)
	if err := s.SoftDelete(a.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	wantTotals := []int{1, 2, 1}
	if len(first) != len(wantTotals) {
		t.Fatalf("first subscriber got %d changes, want %d", len(first), len(wantTotals))
	}
	for i, want := range wantTotals {
		if first[i].Total != want {
			t.Errorf("change %d Total = %d, want %d", i, first[i].Total, want)
		}
	}
	if first[2].Op != OpSoftDelete || first[2].ID != a.ID {
		t.Errorf("change = %+v, want delete of %d", first[2], a.ID)
	}

	unsubscribe()
	unsubscribe()
	if err := s.Restore(a.ID); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if len(first) != 3 {
		t.Errorf("unsubscribed listener got %d changes, want 3", len(first))
	}
	if len(second) != 4 || second[3].Total != 2 {
		t.Errorf("second subscriber = %+v, want 4 changes ending at total 2", second)
	}
}

func TestPersistFailureLeavesStateUntouched(t *testing.T) {
	backend := &failingBackend{MemoryBackend: NewMemoryBackend()}
	s := newTestStore(t, backend)
	added, _ := s.Add("Keep me", "2025-06-20", todo.PriorityLow)

	notified := 0
	s.Subscribe(func(Change) { notified++ })
	backend.failWrites = true

	err := s.Complete(added.ID)
	var saveErr todoerrors.SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("Complete error = %v, want SaveError", err)
	}
	if !errors.Is(err, io.ErrShortWrite) {
		t.Error("SaveError should wrap the backend error")
	}

	if _, err = s.Add("Lost", "2025-06-20", todo.PriorityLow); err == nil {
		t.Error("Add should fail while writes fail")
	}

	items := s.List()
	if len(items) != 1 || items[0].Status != todo.StatusActive {
		t.Errorf("List = %+v, want the untouched single active todo", items)
	}
	if notified != 0 {
		t.Errorf("notifications = %d, want 0", notified)
	}
}

func TestNewStoreSeedsMissingKey(t *testing.T) {
	backend := NewMemoryBackend()
	seed := []todo.Item{{ID: 1, Task: "Welcome", Status: todo.StatusActive, Priority: todo.PriorityMedium}}

	s, err := NewStore(backend, StoreOptions{Seed: seed})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if items := s.List(); len(items) != 1 || items[0].Task != "Welcome" {
		t.Errorf("List = %+v, want seed", items)
	}
	if _, err = backend.Get("todoList"); err == nil {
		t.Error("seed should not be written before the first mutation")
	}

	added, err := s.Add("Next", "2025-06-20", todo.PriorityLow)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.ID <= 1 {
		t.Errorf("ID = %d, want greater than seed ID", added.ID)
	}
}

func TestNewStoreRecoversFromCorruptPayload(t *testing.T) {
	backend := NewMemoryBackend()
	if err := backend.Set("todoList", []byte("{not json")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	s, err := NewStore(backend, StoreOptions{Seed: []todo.Item{{ID: 1, Task: "seed"}}})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if items := s.List(); len(items) != 0 {
		t.Errorf("List = %+v, want empty", items)
	}
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	backend := NewMemoryBackend()
	mine := newTestStore(t, backend)
	theirs := newTestStore(t, backend)

	var changes []Change
	mine.Subscribe(func(c Change) { changes = append(changes, c) })

	changed, err := mine.Reload()
	if err != nil || changed {
		t.Fatalf("Reload() = %v, %v; want false, nil before any write", changed, err)
	}

	if _, err = theirs.Add("From another window", "2025-06-20", todo.PriorityLow); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	changed, err = mine.Reload()
	if err != nil || !changed {
		t.Fatalf("Reload() = %v, %v; want true, nil", changed, err)
	}
	if len(changes) != 1 || !changes[0].External || changes[0].Total != 1 {
		t.Errorf("changes = %+v, want one external change with total 1", changes)
	}
	if items := mine.List(); len(items) != 1 || items[0].Task != "From another window" {
		t.Errorf("List = %+v, want the external todo", items)
	}

	changed, _ = mine.Reload()
	if changed {
		t.Error("second Reload without new writes should report no change")
	}

	// Own writes are not reported back as external
	if _, err = mine.Add("Mine", "2025-06-20", todo.PriorityLow); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if changed, _ = mine.Reload(); changed {
		t.Error("Reload after own write should report no change")
	}
}

func TestReloadIgnoresCorruptExternalWrite(t *testing.T) {
	backend := NewMemoryBackend()
	s := newTestStore(t, backend)
	if _, err := s.Add("Safe", "2025-06-20", todo.PriorityLow); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := backend.Set("todoList", []byte("garbage")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	changed, err := s.Reload()
	if err != nil || changed {
		t.Errorf("Reload() = %v, %v; want false, nil", changed, err)
	}
	if items := s.List(); len(items) != 1 {
		t.Errorf("List length = %d, want 1", len(items))
	}
}

func TestEndToEndSoftDeleteFlow(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend())

	var totals []int
	s.Subscribe(func(c Change) { totals = append(totals, c.Total) })

	added, err := s.Add("Buy milk", "2025-06-16", todo.PriorityHigh)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(s.List()) != 1 || totals[0] != 1 {
		t.Fatalf("after add: list=%d totals=%v", len(s.List()), totals)
	}

	if err = s.SoftDelete(added.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	if totals[1] != 0 {
		t.Errorf("total after delete = %d, want 0", totals[1])
	}
	if items := s.List(); len(items) != 1 || !items[0].Deleted {
		t.Errorf("List = %+v, want one todo flagged deleted", items)
	}

	if err = s.Restore(added.ID); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if totals[2] != 1 {
		t.Errorf("total after restore = %d, want 1", totals[2])
	}
}
