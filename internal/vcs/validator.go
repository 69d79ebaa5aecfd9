package vcs

import (
	"strconv"
	"strings"
)

// ValidationResult is the outcome of a composite pre/post-condition
// check: valid is the AND of empty Errors; Warnings never block a
// transition, only surface operator-facing text. Grounded on the
// original implementation's ValidationResult builder (git/validator.rs).
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

func (r *ValidationResult) withWarning(msg string) *ValidationResult {
	r.Warnings = append(r.Warnings, msg)
	return r
}

func (r *ValidationResult) withError(msg string) *ValidationResult {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
	return r
}

// Validator runs read-only queries against a git repo and composes them
// into the two gate checks the coordinator invokes before starting a
// task and before allowing a merge.
type Validator struct {
	runner Runner
}

// NewValidator wraps a Runner for validation queries.
func NewValidator(runner Runner) *Validator {
	return &Validator{runner: runner}
}

// IsRepo reports whether dir is inside a git working tree.
func (v *Validator) IsRepo(dir string) bool {
	_, code, err := v.runner.RunCode(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && code == 0
}

// HasUncommittedChanges reports whether the working tree has any
// modified, added, or untracked files.
func (v *Validator) HasUncommittedChanges(dir string) (bool, error) {
	out, err := v.runner.Run(dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// HasStagedChanges reports whether anything is staged for commit.
func (v *Validator) HasStagedChanges(dir string) (bool, error) {
	_, code, err := v.runner.RunCode(dir, "diff", "--cached", "--quiet")
	if err != nil {
		return false, err
	}
	// git diff --quiet exits 1 when there is a diff, 0 when there is none.
	return code != 0, nil
}

// CurrentBranch returns the checked-out branch name in dir.
func (v *Validator) CurrentBranch(dir string) (string, error) {
	out, err := v.runner.Run(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BranchExists reports whether branch resolves to a ref in dir.
func (v *Validator) BranchExists(dir, branch string) bool {
	_, code, err := v.runner.RunCode(dir, "rev-parse", "--verify", branch)
	return err == nil && code == 0
}

// WorktreeInfo is one parsed entry from `git worktree list --porcelain`.
type WorktreeInfo struct {
	Path   string
	Branch string
}

// ListWorktrees parses `git worktree list --porcelain` into typed
// records, exposed for diagnostics beyond what the task store tracks
// (e.g. a "status --verbose" command surfacing orphaned worktrees).
func (v *Validator) ListWorktrees(dir string) ([]WorktreeInfo, error) {
	out, err := v.runner.Run(dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	var infos []WorktreeInfo
	var current WorktreeInfo
	flush := func() {
		if current.Path != "" {
			infos = append(infos, current)
		}
		current = WorktreeInfo{}
	}

	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "":
			flush()
		}
	}
	flush()
	return infos, nil
}

// HasNewCommitsVs reports whether HEAD has commits beyond base.
func (v *Validator) HasNewCommitsVs(dir, base string) (bool, error) {
	out, err := v.runner.Run(dir, "rev-list", "--count", base+"..HEAD")
	if err != nil {
		return false, err
	}
	count, convErr := strconv.Atoi(strings.TrimSpace(out))
	if convErr != nil {
		return false, convErr
	}
	return count > 0, nil
}

// ChangedFileCountVs returns the number of files differing from base.
func (v *Validator) ChangedFileCountVs(dir, base string) (int, error) {
	out, err := v.runner.Run(dir, "diff", "--name-only", base)
	if err != nil {
		return 0, err
	}
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return 0, nil
	}
	return len(strings.Split(trimmed, "\n")), nil
}

// ValidateForTaskStart gates create_task/start_planner: a non-repo is
// an error; uncommitted or staged changes on the current branch are
// warnings (not blocking); an already-existing task branch is a
// warning (a retry reusing state from a prior run).
func (v *Validator) ValidateForTaskStart(dir, branchName string) *ValidationResult {
	result := newValidationResult()

	if !v.IsRepo(dir) {
		return result.withError("not a git repository")
	}

	if dirty, err := v.HasUncommittedChanges(dir); err == nil && dirty {
		result.withWarning("uncommitted changes present on the current branch")
	}
	if staged, err := v.HasStagedChanges(dir); err == nil && staged {
		result.withWarning("staged changes present on the current branch")
	}
	if v.BranchExists(dir, branchName) {
		result.withWarning("branch " + branchName + " already exists")
	}

	return result
}

// ValidateImplementation gates start_merge: no new commits AND no
// uncommitted changes relative to base is an error ("no changes
// found"); uncommitted-but-no-commits is a warning; anything else is
// clean.
func (v *Validator) ValidateImplementation(dir, base string) *ValidationResult {
	result := newValidationResult()

	hasCommits, err := v.HasNewCommitsVs(dir, base)
	if err != nil {
		return result.withError(err.Error())
	}
	dirty, err := v.HasUncommittedChanges(dir)
	if err != nil {
		return result.withError(err.Error())
	}

	switch {
	case !hasCommits && !dirty:
		result.withError("no changes found")
	case !hasCommits && dirty:
		result.withWarning("uncommitted changes present with no commits yet")
	}

	return result
}
