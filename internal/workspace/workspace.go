// Package workspace locates and scaffolds a hive workspace: the
// .hive/ directory holding tasks.json, config.json, and the plans,
// worktrees, and logs subdirectories every other package reads from
// and writes to.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
)

// HiveDir is the workspace marker directory, analogous to .git.
const HiveDir = ".hive"

var ErrNoWorkspace = errors.New("no hive workspace found (run 'hive init' first)")
var ErrWorkspaceExists = errors.New("hive workspace already exists (use --force to overwrite)")

// Find walks up from cwd looking for a .hive/ directory.
func Find() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		hivePath := filepath.Join(dir, HiveDir)
		if info, err := os.Stat(hivePath); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoWorkspace
		}
		dir = parent
	}
}

// Path returns the .hive directory path for a workspace root.
func Path(workspaceDir string) string {
	return filepath.Join(workspaceDir, HiveDir)
}

// ConfigPath returns the config.json path.
func ConfigPath(workspaceDir string) string {
	return filepath.Join(workspaceDir, HiveDir, "config.json")
}

// TasksPath returns the tasks.json path.
func TasksPath(workspaceDir string) string {
	return filepath.Join(workspaceDir, HiveDir, "tasks.json")
}

// PlansDir returns the plans/ directory, where planner subprocesses
// write their markdown plan documents.
func PlansDir(workspaceDir string) string {
	return filepath.Join(workspaceDir, HiveDir, "plans")
}

// WorktreesDir returns the worktrees/ directory, where each task's
// git worktree is checked out.
func WorktreesDir(workspaceDir string) string {
	return filepath.Join(workspaceDir, HiveDir, "worktrees")
}

// LogsDir returns the logs/ directory, where each task's agent
// transcript is appended.
func LogsDir(workspaceDir string) string {
	return filepath.Join(workspaceDir, HiveDir, "logs")
}
