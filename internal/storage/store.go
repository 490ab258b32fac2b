package storage

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abatilo/todos/internal/config"
	todoerrors "github.com/abatilo/todos/internal/errors"
	"github.com/abatilo/todos/internal/todo"
)

// Operation names carried by Change.
const (
	OpAdd        = "add"
	OpComplete   = "complete"
	OpReopen     = "reopen"
	OpSoftDelete = "delete"
	OpRestore    = "restore"
	OpReload     = "reload"
)

// Change describes a committed mutation of the todo list.
type Change struct {
	Op string
	ID int64
	// Total is the number of todos that are not soft-deleted.
	Total int
	// External is set when the change was written by another process.
	External bool
}

// Listener receives change notifications.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

// StoreOptions configures a Store.
type StoreOptions struct {
	// Key names the backend entry holding the list.
	Key string
	// Seed is the initial list used when the key has never been written.
	Seed []todo.Item
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Store owns the todo list. Every mutation is persisted before it becomes
// visible and before listeners run.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	key       string
	items     []todo.Item
	persisted []byte // last snapshot read from or written to the backend
	lastID    int64
	subs      []subscription
	nextSub   int
	log       *zap.Logger
	now       func() time.Time
}

// NewStore loads the list from backend. A missing key starts from the seed; a
// corrupt payload is logged and replaced by an empty list.
func NewStore(backend Backend, opts StoreOptions) (*Store, error) {
	if opts.Key == "" {
		opts.Key = config.DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		backend: backend,
		key:     opts.Key,
		log:     opts.Logger.With(zap.String("key", opts.Key)),
		now:     opts.Now,
	}

	data, err := backend.Get(s.key)
	var notFound todoerrors.KeyNotFoundError
	switch {
	case errors.As(err, &notFound):
		s.items = slices.Clone(opts.Seed)
		s.log.Debug("no stored todos, starting from seed", zap.Int("seed", len(opts.Seed)))
	case err != nil:
		return nil, fmt.Errorf("load todos: %w", err)
	default:
		s.persisted = data
		items, decodeErr := DecodeSnapshot(data)
		if decodeErr != nil {
			s.log.Warn("stored todos are corrupt, starting empty", zap.Error(decodeErr))
			items = nil
		}
		s.items = items
	}
	s.lastID = todo.MaxID(s.items)

	return s, nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Key returns the backend key holding the list.
func (s *Store) Key() string {
	return s.key
}

// List returns a copy of every todo in insertion order, soft-deleted ones included.
func (s *Store) List() []todo.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get returns the todo with the given ID.
func (s *Store) Get(id int64) (todo.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.items, id); i >= 0 {
		return s.items[i], true
	}
	return todo.Item{}, false
}

// Add appends a new active todo. Callers validate task and dueDate first with
// todo.IsTaskValid and todo.IsDateValid.
func (s *Store) Add(task, dueDate string, priority todo.Priority) (todo.Item, error) {
	var added todo.Item
	err := s.mutate(OpAdd, 0, func(items []todo.Item) ([]todo.Item, int64, bool) {
		now := s.now()
		added = todo.Item{
			ID:        todo.GenerateID(now, s.lastID),
			Task:      strings.TrimSpace(task),
			Status:    todo.StatusActive,
			Priority:  todo.NormalizePriority(priority),
			DueDate:   dueDate,
			CreatedAt: now.UnixMilli(),
		}
		return append(items, added), added.ID, true
	})
	if err != nil {
		return todo.Item{}, err
	}
	return added, nil
}

// Complete marks a todo completed. Unknown IDs are ignored.
func (s *Store) Complete(id int64) error {
	return s.update(OpComplete, id, func(it *todo.Item) { it.Status = todo.StatusCompleted })
}

// Reopen marks a todo active again. Unknown IDs are ignored.
func (s *Store) Reopen(id int64) error {
	return s.update(OpReopen, id, func(it *todo.Item) { it.Status = todo.StatusActive })
}

// SoftDelete flags a todo as deleted without touching its status. The shell
// must confirm with the user before calling it. Unknown IDs are ignored.
func (s *Store) SoftDelete(id int64) error {
	return s.update(OpSoftDelete, id, func(it *todo.Item) { it.Deleted = true })
}

// Restore clears the deleted flag. Unknown IDs are ignored.
func (s *Store) Restore(id int64) error {
	return s.update(OpRestore, id, func(it *todo.Item) { it.Deleted = false })
}

// Subscribe registers fn for change notifications and returns a function that
// removes it. Listeners run synchronously, in subscription order, after the
// change is persisted.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
		})
	}
}

// Reload re-reads the backend and adopts its contents if another process
// changed them, notifying listeners with External set. It reports whether the
// list changed. Unreadable external writes are logged and ignored.
func (s *Store) Reload() (bool, error) {
	s.mu.Lock()

	data, err := s.backend.Get(s.key)
	var notFound todoerrors.KeyNotFoundError
	if errors.As(err, &notFound) {
		s.mu.Unlock()
		return false, nil
	}
	if err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("reload todos: %w", err)
	}
	if bytes.Equal(data, s.persisted) {
		s.mu.Unlock()
		return false, nil
	}

	items, err := DecodeSnapshot(data)
	if err != nil {
		s.mu.Unlock()
		s.log.Warn("ignoring corrupt external write", zap.Error(err))
		return false, nil
	}

	s.items = items
	s.persisted = data
	s.lastID = max(s.lastID, todo.MaxID(items))
	change := Change{Op: OpReload, Total: activeCount(items), External: true}
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	s.log.Debug("reloaded external change", zap.Int("total", change.Total))
	publish(subs, change)
	return true, nil
}

// update applies fn to the todo with the given ID.
func (s *Store) update(op string, id int64, fn func(*todo.Item)) error {
	return s.mutate(op, id, func(items []todo.Item) ([]todo.Item, int64, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return items, id, false
		}
		fn(&items[i])
		return items, id, true
	})
}

// mutate applies fn to a copy of the list, persists the copy and only then
// commits it and notifies listeners. On persist failure nothing changes.
func (s *Store) mutate(op string, id int64, fn func([]todo.Item) ([]todo.Item, int64, bool)) error {
	s.mu.Lock()

	next, id, found := fn(slices.Clone(s.items))
	if !found {
		s.mu.Unlock()
		s.log.Debug("todo not found, ignoring", zap.String("op", op), zap.Int64("id", id))
		return nil
	}

	data, err := EncodeSnapshot(next)
	if err == nil {
		err = s.backend.Set(s.key, data)
	}
	if err != nil {
		s.mu.Unlock()
		s.log.Error("failed to persist todos", zap.String("op", op), zap.Int64("id", id), zap.Error(err))
		return todoerrors.SaveError{Op: op, Err: err}
	}

	s.items = next
	s.persisted = data
	s.lastID = max(s.lastID, todo.MaxID(next))
	change := Change{Op: op, ID: id, Total: activeCount(next)}
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	s.log.Debug("todos saved", zap.String("op", op), zap.Int64("id", id), zap.Int("total", change.Total))
	publish(subs, change)
	return nil
}

func publish(subs []subscription, change Change) {
	for _, sub := range subs {
		sub.fn(change)
	}
}

func indexOf(items []todo.Item, id int64) int {
	return slices.IndexFunc(items, func(it todo.Item) bool { return it.ID == id })
}

func activeCount(items []todo.Item) int {
	n := 0
	for _, it := range items {
		if !it.Deleted {
			n++
		}
	}
	return n
}
