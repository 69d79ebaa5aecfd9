// Package store persists the task collection to a single JSON document,
// the way the original orchestrator's task/store.rs owned tasks.json.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskhive/hive/internal/task"
)

// Store owns tasks.json under a workspace's .hive directory.
type Store struct {
	path string
}

// New returns a Store backed by the given tasks.json path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the full task list. A missing file is not an error - it
// means an empty collection; a present-but-unparseable file is.
func (s *Store) Load() ([]*task.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*task.Task{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var tasks []*task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return tasks, nil
}

// Save rewrites the full task list atomically: write to a temp file in
// the same directory, then rename over the target, so a concurrent
// reader never observes a partial file.
func (s *Store) Save(tasks []*task.Task) error {
	if tasks == nil {
		tasks = []*task.Task{}
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tasks-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpPath, s.path, err)
	}
	return nil
}

// Add appends a task and persists the full collection.
func (s *Store) Add(t *task.Task) error {
	tasks, err := s.Load()
	if err != nil {
		return err
	}
	tasks = append(tasks, t)
	return s.Save(tasks)
}

// Update replaces the task matching t.ID, a no-op if no task has that
// id, and persists the full collection.
func (s *Store) Update(t *task.Task) error {
	tasks, err := s.Load()
	if err != nil {
		return err
	}
	for i, existing := range tasks {
		if existing.ID == t.ID {
			tasks[i] = t
			return s.Save(tasks)
		}
	}
	return nil
}

// Delete removes the task with the given id, a no-op if absent, and
// persists the full collection.
func (s *Store) Delete(id string) error {
	tasks, err := s.Load()
	if err != nil {
		return err
	}
	filtered := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	return s.Save(filtered)
}

// Get returns the task with the given id, or nil if absent.
func (s *Store) Get(id string) (*task.Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

// GetByStatus returns every task currently in the given status, in
// insertion order.
func (s *Store) GetByStatus(status task.Status) ([]*task.Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return nil, err
	}
	var matches []*task.Task
	for _, t := range tasks {
		if t.Status == status {
			matches = append(matches, t)
		}
	}
	return matches, nil
}
