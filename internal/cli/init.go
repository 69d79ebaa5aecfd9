package cli

import (
	"github.com/spf13/cobra"
	"github.com/taskhive/hive/internal/workspace"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .hive workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return workspace.Init(initForce)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing .hive workspace")
	rootCmd.AddCommand(initCmd)
}
