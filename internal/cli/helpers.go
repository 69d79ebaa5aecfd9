package cli

import (
	"fmt"

	"github.com/taskhive/hive/internal/coordinator"
	"github.com/taskhive/hive/internal/display"
	"github.com/taskhive/hive/internal/task"
	"github.com/taskhive/hive/internal/vcs"
	"github.com/taskhive/hive/internal/workspace"
)

// openCoordinator finds the enclosing workspace and wires a
// Coordinator against it, the way every task/status/config command
// needs to before doing anything else.
func openCoordinator() (*coordinator.Coordinator, string, error) {
	wsDir, err := workspace.Find()
	if err != nil {
		return nil, "", err
	}
	c, err := coordinator.New(wsDir, vcs.NewRunner())
	if err != nil {
		return nil, "", err
	}
	return c, wsDir, nil
}

// findTask returns the task with id, or nil.
func findTask(c *coordinator.Coordinator, id string) *task.Task {
	for _, t := range c.Snapshot() {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// printNotices surfaces any warnings/reverts the coordinator recorded
// during a command, so they aren't silently lost.
func printNotices(d *display.Display, c *coordinator.Coordinator, before int) {
	notes := c.Notices()
	for _, n := range notes[before:] {
		d.Warning(n)
	}
}

func shortStatus(s task.Status) string {
	return fmt.Sprintf("%-12s", s)
}
