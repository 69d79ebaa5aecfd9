package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taskhive/hive/internal/config"
	"github.com/taskhive/hive/internal/workspace"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify the workspace's orchestrator config",
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the workspace's config.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		wsDir, err := workspace.Find()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(workspace.ConfigPath(wsDir))
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

var configSetDefaultCmd = &cobra.Command{
	Use:   "set-default <planner|executor> <name>",
	Short: "Change the default planner or executor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		wsDir, err := workspace.Find()
		if err != nil {
			return err
		}
		configPath := workspace.ConfigPath(wsDir)

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		role, name := args[0], args[1]
		switch role {
		case "planner":
			if _, ok := cfg.Planner(name); !ok {
				return fmt.Errorf("unknown planner %q (available: %v)", name, cfg.PlannerNames())
			}
			cfg.Orchestrator.DefaultPlanner = name
		case "executor":
			if _, ok := cfg.Executor(name); !ok {
				return fmt.Errorf("unknown executor %q (available: %v)", name, cfg.ExecutorNames())
			}
			cfg.Orchestrator.DefaultExecutor = name
		default:
			return fmt.Errorf("unknown role %q, want \"planner\" or \"executor\"", role)
		}

		if err := config.Save(configPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("default %s set to %s\n", role, name)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetDefaultCmd)
}
