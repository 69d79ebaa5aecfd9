package planrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// WatchForPlan blocks until a plan file for id is created or written in
// the repository's directory, ctx is cancelled, or the watcher errors.
// It exists as an event-driven alternative to polling PlanFileExists,
// addressing the documented assumption that the planner subprocess
// writes the plan file atomically: a caller that cannot tolerate
// observing a partial file can wait for a subsequent write/rename event
// instead of a bare stat-loop.
func (r *Repository) WatchForPlan(ctx context.Context, id string) error {
	if err := ensureDir(r.dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create plan watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("watch plan dir %s: %w", r.dir, err)
	}

	target := filepath.Base(r.path(id))

	// The file may already exist by the time we start watching.
	if r.PlanFileExists(id) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("plan watcher for %s closed unexpectedly", id)
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("plan watcher for %s closed unexpectedly", id)
			}
			if err != nil {
				return fmt.Errorf("plan watcher for %s: %w", id, err)
			}
		}
	}
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("empty plan directory")
	}
	return os.MkdirAll(dir, 0755)
}
