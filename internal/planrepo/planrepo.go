// Package planrepo resolves a task's plan file path, checks for its
// existence, and builds the prompt strings sent to the planner and
// executor subprocesses. Grounded on the original PlanManager
// (agent/orchestrator.rs): plans are opaque markdown text, one file per
// task id, under a shared directory outside any task's worktree.
package planrepo

import (
	"fmt"
	"os"
	"path/filepath"
)

// Repository resolves and persists plan documents.
type Repository struct {
	dir string
}

// New returns a Repository rooted at dir (typically .hive/plans).
func New(dir string) *Repository {
	return &Repository{dir: dir}
}

// path returns "<dir>/<id>.md" for a task id.
func (r *Repository) path(id string) string {
	return filepath.Join(r.dir, id+".md")
}

// PlanFileExists reports whether a plan document exists for id.
func (r *Repository) PlanFileExists(id string) bool {
	_, err := os.Stat(r.path(id))
	return err == nil
}

// LoadPlan returns the plan document's text.
func (r *Repository) LoadPlan(id string) (string, error) {
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		return "", fmt.Errorf("load plan %s: %w", id, err)
	}
	return string(data), nil
}

// SavePlan writes a plan document, used by tests and tooling - the
// planner subprocess itself is what normally produces this file.
func (r *Repository) SavePlan(id, text string) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("create plan dir %s: %w", r.dir, err)
	}
	if err := os.WriteFile(r.path(id), []byte(text), 0644); err != nil {
		return fmt.Errorf("save plan %s: %w", id, err)
	}
	return nil
}

// PlanningPrompt builds the instruction sent to a planner subprocess:
// it names the task and directs the agent to emit a markdown plan at
// the expected path.
func (r *Repository) PlanningPrompt(id, title, description string) string {
	return fmt.Sprintf(`You are planning the implementation of the following task.

Title: %s
Description: %s

Write a clear, actionable implementation plan as markdown and save it to:

  %s

Do not implement anything yet - only produce the plan document.`,
		title, description, r.path(id))
}

// ExecutionPrompt builds the instruction sent to an executor
// subprocess: the plan body inlined verbatim, with step-by-step
// implementation directions. Fails if the plan file is missing.
func (r *Repository) ExecutionPrompt(id string) (string, error) {
	plan, err := r.LoadPlan(id)
	if err != nil {
		return "", fmt.Errorf("build execution prompt for %s: %w", id, err)
	}

	return fmt.Sprintf(`Implement the following plan step by step. Make commits as you
complete meaningful units of work.

--- PLAN ---
%s
--- END PLAN ---`, plan), nil
}
