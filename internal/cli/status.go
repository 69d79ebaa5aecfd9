package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskhive/hive/internal/task"
	"github.com/taskhive/hive/internal/vcs"
)

var statusVerbose bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the workspace: task counts by status and running agents",
	Long: `Summarize the workspace.

Use --verbose to additionally list every git worktree the repository
knows about, including ones the task store has lost track of.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, wsDir, err := openCoordinator()
		if err != nil {
			return err
		}

		tasks := c.Snapshot()
		counts := map[task.Status]int{}
		for _, t := range tasks {
			counts[t.Status]++
		}

		fmt.Printf("%d tasks, %d agents running\n\n", len(tasks), c.RunningCount())
		for _, s := range []task.Status{
			task.StatusTodo, task.StatusPlanning, task.StatusPlanReview,
			task.StatusInProgress, task.StatusReview, task.StatusDone, task.StatusCancelled,
		} {
			if counts[s] > 0 {
				fmt.Printf("  %s %d\n", shortStatus(s), counts[s])
			}
		}

		if statusVerbose {
			fmt.Println()
			fmt.Println("Worktrees:")
			v := vcs.NewValidator(vcs.NewRunner())
			infos, err := v.ListWorktrees(wsDir)
			if err != nil {
				return fmt.Errorf("list worktrees: %w", err)
			}
			for _, info := range infos {
				fmt.Printf("  %-12s %s\n", info.Branch, info.Path)
			}
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&statusVerbose, "verbose", "v", false, "also list every git worktree")
	rootCmd.AddCommand(statusCmd)
}
