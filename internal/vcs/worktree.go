package vcs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Worktree manages per-task git worktrees: creation, removal, diffing,
// and merging back into the main repo. Grounded directly on the
// original implementation's WorktreeManager (git/worktree.rs), carried
// over field-for-field: repo root, a container directory, and a
// configurable branch prefix.
type Worktree struct {
	runner       Runner
	repoRoot     string
	worktreeDir  string
	branchPrefix string
}

// NewWorktree builds a Worktree manager. worktreeDir is created eagerly
// if absent, matching the original's constructor.
func NewWorktree(runner Runner, repoRoot, worktreeDir, branchPrefix string) *Worktree {
	if branchPrefix == "" {
		branchPrefix = "hive"
	}
	os.MkdirAll(worktreeDir, 0755)
	return &Worktree{
		runner:       runner,
		repoRoot:     repoRoot,
		worktreeDir:  worktreeDir,
		branchPrefix: branchPrefix,
	}
}

// Path returns the worktree path for a task id, without checking
// existence.
func (w *Worktree) Path(id string) string {
	return filepath.Join(w.worktreeDir, id)
}

// BranchName returns the branch a task's worktree checks out:
// "<prefix>/<id>".
func (w *Worktree) BranchName(id string) string {
	return w.branchPrefix + "/" + id
}

// Exists reports whether a task's worktree directory is present.
func (w *Worktree) Exists(id string) bool {
	_, err := os.Stat(w.Path(id))
	return err == nil
}

// Create adds a worktree for id, idempotently returning the existing
// path if one is already there. On a fresh create it tries a new
// branch first; if that branch already exists (a race with a prior
// partial run), it falls back to checking out the existing branch into
// the new worktree. On success it writes the assistant settings file
// redirecting the plans directory into the shared project-wide folder.
func (w *Worktree) Create(id string) (string, error) {
	path := w.Path(id)
	if w.Exists(id) {
		return path, nil
	}

	branch := w.BranchName(id)
	_, err := w.runner.Run(w.repoRoot, "worktree", "add", "-b", branch, path)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			if _, retryErr := w.runner.Run(w.repoRoot, "worktree", "add", path, branch); retryErr != nil {
				return "", fmt.Errorf("create worktree for %s (existing branch): %w", id, retryErr)
			}
		} else {
			return "", fmt.Errorf("create worktree for %s: %w", id, err)
		}
	}

	if err := w.writeAssistantSettings(path); err != nil {
		return "", err
	}
	return path, nil
}

// Remove force-removes a task's worktree if present; a no-op if absent.
// It does not delete the branch.
func (w *Worktree) Remove(id string) error {
	if !w.Exists(id) {
		return nil
	}
	if _, err := w.runner.Run(w.repoRoot, "worktree", "remove", "--force", w.Path(id)); err != nil {
		return fmt.Errorf("remove worktree for %s: %w", id, err)
	}
	return nil
}

// Diff returns the raw textual diff of a task's worktree against base.
func (w *Worktree) Diff(id, base string) (string, error) {
	out, err := w.runner.Run(w.Path(id), "diff", base)
	if err != nil {
		return "", fmt.Errorf("diff for %s against %s: %w", id, base, err)
	}
	return out, nil
}

// Merge performs a no-fast-forward merge of the task's branch into the
// branch currently checked out in the main repo root, with a
// deterministic commit message naming the task id. target is not
// checked out; it only names the destination in the error message.
func (w *Worktree) Merge(id, target string) error {
	branch := w.BranchName(id)
	msg := fmt.Sprintf("Merge %s via hive", id)
	if _, err := w.runner.Run(w.repoRoot, "merge", branch, "--no-ff", "-m", msg); err != nil {
		return fmt.Errorf("merge %s into %s: %w", branch, target, err)
	}
	return nil
}

// writeAssistantSettings materializes .claude/settings.json inside the
// worktree, redirecting the assistant subprocess's plans directory to
// the shared project-wide plans folder rather than a worktree-local
// one it would otherwise default to. A .gitignore beside it keeps the
// directory's untracked files out of git status, so a freshly created
// worktree still reads as having no changes.
func (w *Worktree) writeAssistantSettings(worktreePath string) error {
	dir := filepath.Join(worktreePath, ".claude")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	ignorePath := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(ignorePath, []byte("*\n"), 0644); err != nil {
		return fmt.Errorf("write %s: %w", ignorePath, err)
	}

	settings := map[string]string{"plansDirectory": "../../plans"}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal assistant settings: %w", err)
	}

	path := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
