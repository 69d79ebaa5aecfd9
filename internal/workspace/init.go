package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskhive/hive/internal/config"
)

// Init creates a new hive workspace in the current directory: the
// .hive/ marker directory, an empty tasks.json, a config.json seeded
// with the built-in agent catalog, and the plans/worktrees/logs
// subdirectories every other package expects to find.
func Init(force bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	hivePath := filepath.Join(cwd, HiveDir)

	if _, err := os.Stat(hivePath); err == nil {
		if !force {
			return ErrWorkspaceExists
		}
		if err := os.RemoveAll(hivePath); err != nil {
			return fmt.Errorf("failed to remove existing workspace: %w", err)
		}
	}

	dirs := []string{
		hivePath,
		PlansDir(cwd),
		WorktreesDir(cwd),
		LogsDir(cwd),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := config.Save(ConfigPath(cwd), config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	if err := os.WriteFile(TasksPath(cwd), []byte("[]\n"), 0644); err != nil {
		return fmt.Errorf("failed to write tasks.json: %w", err)
	}

	fmt.Println("Initialized hive workspace in", hivePath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Review .hive/config.json and adjust the planner/executor catalog")
	fmt.Println("  2. Run 'hive task new \"<title>\"' to create your first task")
	fmt.Println("  3. Run 'hive task advance <id>' to move it through planning and review")

	return nil
}
