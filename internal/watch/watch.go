// Package watch propagates changes made by other processes sharing the same
// storage into a running Store.
package watch

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reloader re-reads shared state and reports whether it changed.
type Reloader interface {
	Reload() (bool, error)
}

// Watcher polls a Reloader on a cron schedule. An optional midnight job lets
// callers refresh anything that depends on the current day, such as overdue counts.
type Watcher struct {
	cron     *cron.Cron
	reloader Reloader
	log      *zap.Logger
}

// New creates a Watcher using the local time zone.
func New(reloader Reloader, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		cron:     cron.New(cron.WithLocation(time.Local), cron.WithSeconds()),
		reloader: reloader,
		log:      log,
	}
}

// Poll schedules a reload every interval (rounded to whole seconds, at least one).
func (w *Watcher) Poll(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	seconds := max(int(interval.Seconds()), 1)
	_, err := w.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), w.reload)
	return err
}

// AtMidnight runs job at the start of every local day.
func (w *Watcher) AtMidnight(job func()) error {
	_, err := w.cron.AddFunc("0 0 0 * * *", job)
	return err
}

// Start begins running scheduled jobs in the background.
func (w *Watcher) Start() {
	w.cron.Start()
}

// Stop halts the schedule and waits for running jobs to finish.
func (w *Watcher) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

func (w *Watcher) reload() {
	changed, err := w.reloader.Reload()
	if err != nil {
		w.log.Warn("reload failed", zap.Error(err))
		return
	}
	if changed {
		w.log.Debug("picked up external change")
	}
}
