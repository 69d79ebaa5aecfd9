// Package cli wires the cobra command tree a user drives the
// coordinator through: init, task lifecycle verbs, status, and config.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by goreleaser via ldflags.
	Version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "hive",
	Short: "Orchestrates AI coding assistants through a task lifecycle",
	Long: `hive runs planner and executor agents against tasks tracked through a
fixed lifecycle: todo, planning, plan_review, in_progress, review, done.

Core commands:
  hive init                 Create a .hive workspace in the current repo
  hive task new <title>     Create a task and start its planner
  hive task list            Show every tracked task and its status
  hive task advance <id>    Move a task to the next status
  hive task retreat <id>    Move a task back to its retreat target
  hive task watch <id>      Stream a task's running agent output
  hive task stop <id>       Terminate a task's running agent
  hive task merge <id>      Validate and merge a reviewed task
  hive status                Summarize the workspace`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (not read: commands always load .hive/config.json)")
	rootCmd.SetVersionTemplate(fmt.Sprintf("hive version %s\n", Version))
}
