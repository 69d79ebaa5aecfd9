package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseBranch != "main" {
		t.Errorf("BaseBranch = %q, want main", cfg.BaseBranch)
	}
	if cfg.Orchestrator.DefaultPlanner == "" {
		t.Error("DefaultPlanner is empty in defaults")
	}
}

func TestLoadCorruptedFileFallsBackWithError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeRaw(t, path, "{not json")

	cfg, err := Load(path)
	if err == nil {
		t.Error("Load() on corrupted config returned nil error, want a warning-worthy error")
	}
	if cfg == nil || cfg.BaseBranch != "main" {
		t.Error("Load() on corrupted config did not fall back to defaults")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.BaseBranch = "trunk"
	cfg.Orchestrator.DefaultPlanner = "gemini"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.BaseBranch != "trunk" {
		t.Errorf("BaseBranch = %q, want trunk", reloaded.BaseBranch)
	}
	if reloaded.Orchestrator.DefaultPlanner != "gemini" {
		t.Errorf("DefaultPlanner = %q, want gemini", reloaded.Orchestrator.DefaultPlanner)
	}
}

func TestPlannerExecutorLookup(t *testing.T) {
	cfg := DefaultConfig()

	if _, ok := cfg.Planner("claude"); !ok {
		t.Error("Planner(claude) not found in default catalog")
	}
	if _, ok := cfg.Planner("does-not-exist"); ok {
		t.Error("Planner(does-not-exist) unexpectedly found")
	}
	if _, ok := cfg.Executor("codex"); !ok {
		t.Error("Executor(codex) not found in default catalog")
	}
}

func TestNamesAreSortedAndDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	names := cfg.PlannerNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("PlannerNames() not sorted: %v", names)
		}
	}
}

func writeRaw(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
