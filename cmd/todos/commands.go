package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abatilo/todos/internal/dates"
	todoerrors "github.com/abatilo/todos/internal/errors"
	"github.com/abatilo/todos/internal/storage"
	"github.com/abatilo/todos/internal/todo"
	"github.com/abatilo/todos/internal/view"
	"github.com/abatilo/todos/internal/watch"
)

// addCmd implements 'todos add'.
func addCmd() *cobra.Command {
	var (
		due      string
		priority string
	)

	cmd := &cobra.Command{
		Use:   "add <task>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			task := strings.Join(args, " ")
			p, err := validateNewTodo(task, due, priority, time.Now())
			if err != nil {
				printError(err)
			}

			store, err := getStore()
			if err != nil {
				printError(err)
			}
			defer store.Close()

			added, err := store.Add(task, due, p)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTodo(added, time.Now()))
		},
	}
	cmd.Flags().StringVarP(&due, "due", "d", dates.Format(dates.Today()), "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(todo.PriorityLow), "Priority (low, medium, high)")
	return cmd
}

// validateNewTodo checks add input and returns the canonical priority.
func validateNewTodo(task, due, priority string, now time.Time) (todo.Priority, error) {
	if !todo.IsTaskValid(task) {
		return "", todoerrors.InvalidTaskError{}
	}
	if !todo.IsDateValid(due, now) {
		return "", todoerrors.InvalidDueDateError{Value: due}
	}
	p, ok := todo.ParsePriority(priority)
	if !ok {
		return "", todoerrors.InvalidPriorityError{Value: priority}
	}
	return p, nil
}

// listCmd implements 'todos list'.
func listCmd() *cobra.Command {
	var (
		status  string
		search  string
		deleted bool
		sortBy  string
		desc    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Run: func(_ *cobra.Command, _ []string) {
			state, err := buildState(status, search, sortBy, deleted, desc)
			if err != nil {
				printError(err)
			}

			store, err := getStore()
			if err != nil {
				printError(err)
			}
			defer store.Close()

			now := time.Now()
			printOutput(formatter.FormatList(view.Project(store.List(), state, now), now))
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", string(view.FilterAll), "Status filter (all, active, completed)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Only show todos whose task contains this text")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "Include deleted todos")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by task, status, priority, dueDate or createdAt")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	return cmd
}

// buildState turns list flags into a view state. Descending order is reached
// the same way a second click on a column header reaches it.
func buildState(status, search, sortBy string, deleted, desc bool) (view.State, error) {
	filter, err := view.ParseFilter(status)
	if err != nil {
		return view.State{}, err
	}
	key, err := view.ParseSortKey(sortBy)
	if err != nil {
		return view.State{}, err
	}

	state := view.NewState()
	state.Status = filter
	state.Search = search
	state.IncludeDeleted = deleted
	if key != view.SortNone {
		state.RequestSort(key)
		if desc {
			state.RequestSort(key)
		}
	}
	return state, nil
}

// showCmd implements 'todos show'.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show todo details",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				printError(err)
			}

			store, err := getStore()
			if err != nil {
				printError(err)
			}
			defer store.Close()

			t, ok := store.Get(id)
			if !ok {
				printError(todoerrors.TodoNotFoundError{ID: id})
			}
			printOutput(formatter.FormatTodo(t, time.Now()))
		},
	}
}

// completeCmd implements 'todos complete'.
func completeCmd() *cobra.Command {
	return mutationCmd("complete <id>", "Mark a todo completed", (*storage.Store).Complete)
}

// reopenCmd implements 'todos reopen'.
func reopenCmd() *cobra.Command {
	return mutationCmd("reopen <id>", "Mark a completed todo active again", (*storage.Store).Reopen)
}

// restoreCmd implements 'todos restore'.
func restoreCmd() *cobra.Command {
	return mutationCmd("restore <id>", "Restore a deleted todo", (*storage.Store).Restore)
}

// mutationCmd builds a command that applies op to one todo and prints it.
// An unknown ID changes nothing and is reported as a message.
func mutationCmd(use, short string, op func(*storage.Store, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				printError(err)
			}

			store, err := getStore()
			if err != nil {
				printError(err)
			}
			defer store.Close()

			if err = op(store, id); err != nil {
				printError(err)
			}
			t, ok := store.Get(id)
			if !ok {
				printOutput(formatter.FormatMessage(fmt.Sprintf("No todo with id %d, nothing changed", id)))
				return
			}
			printOutput(formatter.FormatTodo(t, time.Now()))
		},
	}
}

// rmCmd implements 'todos rm'.
func rmCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo (it can be restored later)",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				printError(err)
			}

			store, err := getStore()
			if err != nil {
				printError(err)
			}
			defer store.Close()

			prompter := StreamPrompter{In: c.InOrStdin(), Out: c.ErrOrStderr()}
			t, err := removeTodo(store, id, prompter, yes)
			var notFound todoerrors.TodoNotFoundError
			if errors.As(err, &notFound) {
				printOutput(formatter.FormatMessage(fmt.Sprintf("No todo with id %d, nothing changed", id)))
				return
			}
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTodo(t, time.Now()))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// removeTodo soft-deletes a todo once the user confirms. Declining returns
// CancelledError and leaves the store untouched.
func removeTodo(store *storage.Store, id int64, p Prompter, yes bool) (todo.Item, error) {
	t, ok := store.Get(id)
	if !ok {
		return todo.Item{}, todoerrors.TodoNotFoundError{ID: id}
	}

	if !yes {
		confirmed, err := p.Confirm(removePrompt(t.Task))
		if err != nil {
			return todo.Item{}, err
		}
		if !confirmed {
			return todo.Item{}, todoerrors.CancelledError{}
		}
	}

	if err := store.SoftDelete(id); err != nil {
		return todo.Item{}, err
	}
	t, _ = store.Get(id)
	return t, nil
}

// countsCmd implements 'todos counts'.
func countsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show how many todos there are and how many are overdue",
		Run: func(_ *cobra.Command, _ []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}
			defer store.Close()

			printOutput(formatter.FormatCounts(view.CountsOf(store.List(), time.Now())))
		},
	}
}

// watchCmd implements 'todos watch'.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print counts whenever the list changes, including changes from other processes",
		Run: func(_ *cobra.Command, _ []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}
			defer store.Close()

			// Subscribers and the midnight job run on separate cron goroutines.
			printCounts := serialPrinter(os.Stdout, func() string {
				return formatter.FormatCounts(view.CountsOf(store.List(), time.Now()))
			})
			unsubscribe := store.Subscribe(func(c storage.Change) {
				log.Debug("list changed", zap.String("op", c.Op), zap.Bool("external", c.External))
				printCounts()
			})
			defer unsubscribe()

			w := watch.New(store, log)
			if err = w.Poll(cfg.Watch.Interval); err != nil {
				printError(err)
			}
			if err = w.AtMidnight(printCounts); err != nil {
				printError(err)
			}

			printCounts()
			w.Start()
			defer w.Stop()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			signal.Stop(sig)
		},
	}
}

// serialPrinter returns a function that writes render's output to w, one
// caller at a time.
func serialPrinter(w io.Writer, render func() string) func() {
	var mu sync.Mutex
	return func() {
		mu.Lock()
		defer mu.Unlock()
		io.WriteString(w, render()) //nolint:errcheck // stdout write errors are unrecoverable
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be a number", s)
	}
	return id, nil
}
