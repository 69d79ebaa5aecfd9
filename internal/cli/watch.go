package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskhive/hive/internal/display"
	"github.com/taskhive/hive/internal/task"
)

// watchPollInterval is how often "task watch" re-drains the
// coordinator's event stream while a task's agent is still running.
const watchPollInterval = 200 * time.Millisecond

// watchLookback is how many ring-buffered lines "task watch" asks the
// coordinator for on each poll; the ring itself caps at 100 regardless.
const watchLookback = 200

var taskWatchCmd = &cobra.Command{
	Use:   "watch <id>",
	Short: "Stream a task's running agent output until it stops",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCoordinator()
		if err != nil {
			return err
		}
		taskID := args[0]
		tk := findTask(c, taskID)
		if tk == nil {
			return fmt.Errorf("task %s not found", taskID)
		}

		d := display.New()
		agentName := activeAgentName(tk)
		prefix := fmt.Sprintf("[%s] ", taskID)

		d.SectionBreak()
		d.TaskHeader(taskID, agentName)
		d.Info("status", string(tk.Status))

		start := time.Now()
		lastStatus := tk.Status
		var lastLine string

		for {
			c.DrainEvents()

			lines := c.RecentLogLines(watchLookback)
			startIdx := 0
			if lastLine != "" {
				for i := len(lines) - 1; i >= 0; i-- {
					if lines[i] == lastLine {
						startIdx = i + 1
						break
					}
				}
			}
			for _, line := range lines[startIdx:] {
				if strings.HasPrefix(line, prefix) {
					d.AgentOutput(agentName, strings.TrimPrefix(line, prefix))
				}
			}
			if len(lines) > 0 {
				lastLine = lines[len(lines)-1]
			}

			current := findTask(c, taskID)
			if current == nil {
				break
			}
			if current.Status != lastStatus {
				lastStatus = current.Status
				break
			}
			if c.RunningCount() == 0 {
				break
			}
			time.Sleep(watchPollInterval)
		}

		final := findTask(c, taskID)
		result := "agent stopped"
		if final != nil {
			result = fmt.Sprintf("now %s", final.Status)
		}
		d.AgentDone(agentName, result)
		d.Duration(time.Since(start))
		printNotices(d, c, 0)
		d.SectionBreak()
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskWatchCmd)
}

// activeAgentName reports which agent name currently owns a task's
// output: the executor once assigned, otherwise the planner, otherwise
// a generic label for a task with no agent yet.
func activeAgentName(t *task.Task) string {
	if t.Executor != nil {
		return *t.Executor
	}
	if t.Planner != nil {
		return *t.Planner
	}
	return "agent"
}
