// Package vcs abstracts the external git binary behind a narrow command
// interface, so the worktree manager and validator above it can be
// tested against a fake runner while production code shells out for
// real. Every call here corresponds to one entry in the version-control
// command contract.
package vcs

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Runner executes a git subcommand in a working directory and returns
// its captured stdout, or an error wrapping stderr on non-zero exit.
type Runner interface {
	Run(dir string, args ...string) (stdout string, err error)

	// RunCode runs a subcommand where the exit code itself is
	// meaningful (e.g. "diff --cached --quiet", "rev-parse --verify")
	// rather than a failure signal. err is non-nil only for failures
	// to execute the process at all.
	RunCode(dir string, args ...string) (stdout string, exitCode int, err error)
}

// execRunner shells out to the real git binary.
type execRunner struct {
	binary string
}

// NewRunner returns a Runner backed by the git binary resolved from PATH.
func NewRunner() Runner {
	return &execRunner{binary: "git"}
}

func (r *execRunner) Run(dir string, args ...string) (string, error) {
	cmd := exec.Command(r.binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return stdout.String(), fmt.Errorf("git %v: %s", args, stderr.String())
		}
		return "", fmt.Errorf("git %v: %w", args, err)
	}
	return stdout.String(), nil
}

func (r *execRunner) RunCode(dir string, args ...string) (string, int, error) {
	cmd := exec.Command(r.binary, args...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if err == nil {
		return stdout.String(), 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return stdout.String(), exitErr.ExitCode(), nil
	}
	return "", -1, fmt.Errorf("git %v: %w", args, err)
}
