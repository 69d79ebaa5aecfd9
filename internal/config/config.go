// Package config loads the orchestrator's configuration: the catalog of
// planner/executor agent specs, their defaults, and the ambient knobs
// (base branch, worktree/branch naming) the rest of the core reads.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/viper"
)

// AgentSpec names the command line used to invoke a planner or
// executor, as recorded in the orchestrator catalog.
type AgentSpec struct {
	Command     string   `json:"command" mapstructure:"command"`
	Args        []string `json:"args" mapstructure:"args"`
	Description string   `json:"description" mapstructure:"description"`
}

// Orchestrator is the immutable-once-loaded catalog of available
// planner and executor agent specs, plus which name each role defaults
// to when a command omits one.
type Orchestrator struct {
	DefaultPlanner  string               `json:"default_planner" mapstructure:"default_planner"`
	DefaultExecutor string               `json:"default_executor" mapstructure:"default_executor"`
	Planners        map[string]AgentSpec `json:"planners" mapstructure:"planners"`
	Executors       map[string]AgentSpec `json:"executors" mapstructure:"executors"`
}

// Config is the full contents of .hive/config.json.
type Config struct {
	Orchestrator Orchestrator `json:"orchestrator" mapstructure:"orchestrator"`

	// BaseBranch is the branch worktrees fork from and merges land on.
	// Open Question in the source design: hard-coded "main" in most
	// validator/merge paths but surfaced here as a config knob per the
	// spec's own recommendation.
	BaseBranch string `json:"base_branch" mapstructure:"base_branch"`

	// BranchPrefix namespaces every task branch: "<prefix>/<task-id>".
	BranchPrefix string `json:"branch_prefix" mapstructure:"branch_prefix"`
}

// Load reads .hive/config.json from configPath. A missing file yields
// DefaultConfig(), not an error - the coordinator can run against
// built-in agent specs with no configuration present. A present but
// unparseable file falls back to defaults with the error returned
// separately so the caller can surface it as a startup warning, per
// the "Config parse failure" policy.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return DefaultConfig(), fmt.Errorf("read config %s: %w", configPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", configPath, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Save writes cfg to configPath as pretty-printed JSON, used when a
// user command updates a default planner/executor.
func Save(configPath string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", configPath, err)
	}
	return nil
}

// DefaultConfig returns the built-in catalog: claude, gemini and codex
// planners/executors, mirroring the orchestrator defaults the original
// implementation shipped.
func DefaultConfig() *Config {
	return &Config{
		BaseBranch:   "main",
		BranchPrefix: "hive",
		Orchestrator: Orchestrator{
			DefaultPlanner:  "claude",
			DefaultExecutor: "claude",
			Planners: map[string]AgentSpec{
				"claude": {Command: "claude", Args: []string{"--print", "--output-format", "text"}, Description: "Claude Code"},
				"gemini": {Command: "gemini", Args: []string{"--yolo"}, Description: "Gemini CLI"},
				"codex":  {Command: "codex", Args: []string{"exec"}, Description: "Codex CLI"},
			},
			Executors: map[string]AgentSpec{
				"claude": {Command: "claude", Args: []string{"--print", "--output-format", "text"}, Description: "Claude Code"},
				"gemini": {Command: "gemini", Args: []string{"--yolo"}, Description: "Gemini CLI"},
				"codex":  {Command: "codex", Args: []string{"exec"}, Description: "Codex CLI"},
			},
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.BaseBranch == "" {
		cfg.BaseBranch = defaults.BaseBranch
	}
	if cfg.BranchPrefix == "" {
		cfg.BranchPrefix = defaults.BranchPrefix
	}
	if cfg.Orchestrator.DefaultPlanner == "" {
		cfg.Orchestrator.DefaultPlanner = defaults.Orchestrator.DefaultPlanner
	}
	if cfg.Orchestrator.DefaultExecutor == "" {
		cfg.Orchestrator.DefaultExecutor = defaults.Orchestrator.DefaultExecutor
	}
	if cfg.Orchestrator.Planners == nil {
		cfg.Orchestrator.Planners = defaults.Orchestrator.Planners
	}
	if cfg.Orchestrator.Executors == nil {
		cfg.Orchestrator.Executors = defaults.Orchestrator.Executors
	}
}

// Planner looks up a planner AgentSpec by name.
func (c *Config) Planner(name string) (AgentSpec, bool) {
	spec, ok := c.Orchestrator.Planners[name]
	return spec, ok
}

// Executor looks up an executor AgentSpec by name.
func (c *Config) Executor(name string) (AgentSpec, bool) {
	spec, ok := c.Orchestrator.Executors[name]
	return spec, ok
}

// PlannerNames returns the catalog's planner names in sorted order, so
// CLI listings are deterministic despite Go's randomized map iteration.
func (c *Config) PlannerNames() []string {
	return sortedKeys(c.Orchestrator.Planners)
}

// ExecutorNames returns the catalog's executor names in sorted order.
func (c *Config) ExecutorNames() []string {
	return sortedKeys(c.Orchestrator.Executors)
}

func sortedKeys(m map[string]AgentSpec) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
