package vcs

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// initRepo creates a real temp git repo with one initial commit on
// main, mirroring the fixture every end-to-end scenario in the source
// design seeds its tests with.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	run("init", "-b", "main")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-m", "initial commit")

	return dir
}

func TestWorktreeCreateIsIdempotent(t *testing.T) {
	repo := initRepo(t)
	wt := NewWorktree(NewRunner(), repo, filepath.Join(repo, ".hive", "worktrees"), "hive")

	first, err := wt.Create("task-abc1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !wt.Exists("task-abc1") {
		t.Fatal("Exists() false after Create()")
	}

	second, err := wt.Create("task-abc1")
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if first != second {
		t.Errorf("Create() not idempotent: %q != %q", first, second)
	}
}

func TestWorktreeCreateWritesAssistantSettings(t *testing.T) {
	repo := initRepo(t)
	wt := NewWorktree(NewRunner(), repo, filepath.Join(repo, ".hive", "worktrees"), "hive")

	path, err := wt.Create("task-abc2")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	settingsPath := filepath.Join(path, ".claude", "settings.json")
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("settings.json not written: %v", err)
	}
	if string(data) == "" {
		t.Error("settings.json is empty")
	}
}

func TestWorktreeBranchNameAndPath(t *testing.T) {
	repo := initRepo(t)
	wt := NewWorktree(NewRunner(), repo, filepath.Join(repo, ".hive", "worktrees"), "hive")

	if got := wt.BranchName("task-xyz"); got != "hive/task-xyz" {
		t.Errorf("BranchName() = %q, want hive/task-xyz", got)
	}
	wantPath := filepath.Join(repo, ".hive", "worktrees", "task-xyz")
	if got := wt.Path("task-xyz"); got != wantPath {
		t.Errorf("Path() = %q, want %q", got, wantPath)
	}
}

func TestWorktreeRemoveAbsentIsNoOp(t *testing.T) {
	repo := initRepo(t)
	wt := NewWorktree(NewRunner(), repo, filepath.Join(repo, ".hive", "worktrees"), "hive")

	if err := wt.Remove("task-never-created"); err != nil {
		t.Errorf("Remove() on absent worktree error = %v", err)
	}
}

func TestWorktreeCreateThenRemove(t *testing.T) {
	repo := initRepo(t)
	wt := NewWorktree(NewRunner(), repo, filepath.Join(repo, ".hive", "worktrees"), "hive")

	if _, err := wt.Create("task-rm1"); err != nil {
		t.Fatal(err)
	}
	if err := wt.Remove("task-rm1"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if wt.Exists("task-rm1") {
		t.Error("Exists() true after Remove()")
	}
}

func TestWorktreeMergeProducesCommitOnMain(t *testing.T) {
	repo := initRepo(t)
	wt := NewWorktree(NewRunner(), repo, filepath.Join(repo, ".hive", "worktrees"), "hive")

	path, err := wt.Create("task-merge1")
	if err != nil {
		t.Fatal(err)
	}

	writeAndCommit(t, path, "feature.txt", "new feature\n")

	if err := wt.Merge("task-merge1", "main"); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	out, err := NewRunner().Run(repo, "log", "-1", "--pretty=%s")
	if err != nil {
		t.Fatal(err)
	}
	if got := out; !strings.Contains(got, "Merge task-merge1") {
		t.Fatalf("last commit on main = %q, want the merge commit for task-merge1", got)
	}
}

func TestValidatorIsRepo(t *testing.T) {
	repo := initRepo(t)
	v := NewValidator(NewRunner())

	if !v.IsRepo(repo) {
		t.Error("IsRepo() false for a real repo")
	}
	if v.IsRepo(t.TempDir()) {
		t.Error("IsRepo() true for a non-repo directory")
	}
}

func TestValidatorHasUncommittedChanges(t *testing.T) {
	repo := initRepo(t)
	v := NewValidator(NewRunner())

	dirty, err := v.HasUncommittedChanges(repo)
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("HasUncommittedChanges() true on a clean repo")
	}

	if err := os.WriteFile(filepath.Join(repo, "scratch.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	dirty, err = v.HasUncommittedChanges(repo)
	if err != nil {
		t.Fatal(err)
	}
	if !dirty {
		t.Error("HasUncommittedChanges() false after adding an untracked file")
	}
}

func TestValidatorForTaskStart(t *testing.T) {
	repo := initRepo(t)
	v := NewValidator(NewRunner())

	result := v.ValidateForTaskStart(repo, "hive/task-new")
	if !result.Valid {
		t.Errorf("ValidateForTaskStart() on clean repo = invalid, errors=%v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("ValidateForTaskStart() on clean repo has warnings = %v", result.Warnings)
	}
}

func TestValidatorForTaskStartWarnsOnDirtyMain(t *testing.T) {
	repo := initRepo(t)
	v := NewValidator(NewRunner())

	if err := os.WriteFile(filepath.Join(repo, "dirty.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	result := v.ValidateForTaskStart(repo, "hive/task-new")
	if !result.Valid {
		t.Errorf("dirty main should warn, not error: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning about uncommitted changes")
	}
}

func TestValidatorForTaskStartErrorsOnNonRepo(t *testing.T) {
	v := NewValidator(NewRunner())
	result := v.ValidateForTaskStart(t.TempDir(), "hive/task-x")
	if result.Valid {
		t.Error("ValidateForTaskStart() on a non-repo should be invalid")
	}
}

func TestValidatorImplementationNoChangesErrors(t *testing.T) {
	repo := initRepo(t)
	wt := NewWorktree(NewRunner(), repo, filepath.Join(repo, ".hive", "worktrees"), "hive")
	path, err := wt.Create("task-clean")
	if err != nil {
		t.Fatal(err)
	}

	v := NewValidator(NewRunner())
	result := v.ValidateImplementation(path, "main")
	if result.Valid {
		t.Error("ValidateImplementation() on untouched worktree should be invalid")
	}
}

func TestValidatorImplementationWithCommitIsValid(t *testing.T) {
	repo := initRepo(t)
	wt := NewWorktree(NewRunner(), repo, filepath.Join(repo, ".hive", "worktrees"), "hive")
	path, err := wt.Create("task-withcommit")
	if err != nil {
		t.Fatal(err)
	}
	writeAndCommit(t, path, "impl.txt", "implementation\n")

	v := NewValidator(NewRunner())
	result := v.ValidateImplementation(path, "main")
	if !result.Valid {
		t.Errorf("ValidateImplementation() with a new commit = invalid, errors=%v", result.Errors)
	}
}

func writeAndCommit(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("add", ".")
	run("commit", "-m", "add "+name)
}
