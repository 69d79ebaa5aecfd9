package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taskhive/hive/internal/display"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create and drive tasks through the lifecycle",
}

func init() {
	rootCmd.AddCommand(taskCmd)
}

var taskNewDescription string

var taskNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a task and start its default planner",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCoordinator()
		if err != nil {
			return err
		}
		d := display.New()

		title := strings.Join(args, " ")
		before := len(c.Notices())
		t, err := c.CreateTask(title, taskNewDescription)
		if err != nil {
			printNotices(d, c, before)
			return fmt.Errorf("create task: %w", err)
		}

		d.Box(
			fmt.Sprintf("Created %s", t.ID),
			fmt.Sprintf("Title:  %s", t.Title),
			fmt.Sprintf("Status: %s", t.Status),
		)
		printNotices(d, c, before)
		return nil
	},
}

func init() {
	taskNewCmd.Flags().StringVar(&taskNewDescription, "description", "", "task description passed to the planner prompt")
	taskCmd.AddCommand(taskNewCmd)
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tracked task",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCoordinator()
		if err != nil {
			return err
		}

		tasks := c.Snapshot()
		if len(tasks) == 0 {
			fmt.Println("No tasks yet. Run 'hive task new <title>' to create one.")
			return nil
		}
		for _, t := range tasks {
			fmt.Printf("%s  %s  %s\n", t.ID, shortStatus(t.Status), t.Title)
		}
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskListCmd)
}

var taskAdvanceCmd = &cobra.Command{
	Use:   "advance <id>",
	Short: "Move a task to the next status in its lifecycle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCoordinator()
		if err != nil {
			return err
		}
		d := display.New()

		if err := c.Advance(args[0]); err != nil {
			return err
		}
		t := findTask(c, args[0])
		d.Success(fmt.Sprintf("%s advanced to %s", args[0], t.Status))
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskAdvanceCmd)
}

var taskRetreatCmd = &cobra.Command{
	Use:   "retreat <id>",
	Short: "Move a task back to its manual retreat target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCoordinator()
		if err != nil {
			return err
		}
		d := display.New()

		if err := c.Retreat(args[0]); err != nil {
			return err
		}
		t := findTask(c, args[0])
		d.Resume(fmt.Sprintf("%s retreated to %s", args[0], t.Status))
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskRetreatCmd)
}

var taskStopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Terminate a task's running agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCoordinator()
		if err != nil {
			return err
		}
		d := display.New()

		c.Stop(args[0])
		d.Success(fmt.Sprintf("stop signal sent to %s", args[0]))
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskStopCmd)
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Stop a task's agent, remove its worktree, and forget it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCoordinator()
		if err != nil {
			return err
		}
		d := display.New()

		before := len(c.Notices())
		if err := c.Delete(args[0]); err != nil {
			return err
		}
		d.Success(fmt.Sprintf("%s deleted", args[0]))
		printNotices(d, c, before)
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskDeleteCmd)
}

var taskMergeCmd = &cobra.Command{
	Use:   "merge <id>",
	Short: "Validate and merge a reviewed task's branch into the checked-out branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCoordinator()
		if err != nil {
			return err
		}
		d := display.New()

		before := len(c.Notices())
		if err := c.StartMerge(args[0]); err != nil {
			return fmt.Errorf("merge validation failed: %w", err)
		}
		printNotices(d, c, before)

		if err := c.ExecuteMerge(args[0]); err != nil {
			return err
		}
		d.Success(fmt.Sprintf("%s merged and marked done", args[0]))
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskMergeCmd)
}
