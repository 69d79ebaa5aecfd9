package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/taskhive/hive/internal/config"
)

func waitForDone(t *testing.T, sup *Supervisor, taskID string, timeout time.Duration) Status {
	t.Helper()
	deadline := time.After(timeout)
	for {
		status, ok := sup.CheckTaskCompletion(taskID)
		if !ok {
			t.Fatalf("CheckTaskCompletion(%q): unknown task", taskID)
		}
		if status != StatusRunning {
			return status
		}
		select {
		case <-deadline:
			t.Fatalf("task %q did not finish within %s", taskID, timeout)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func drain(events <-chan Event) []Event {
	var got []Event
	for e := range events {
		got = append(got, e)
	}
	return got
}

func TestStartSuccessfulCompletion(t *testing.T) {
	sup := New(t.TempDir())
	spec := config.AgentSpec{Command: "sh", Args: []string{"-c", "echo hello"}}

	events, err := sup.Start(context.Background(), "task-ok", "shell", spec, t.TempDir(), "unused")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	seen := drain(events)
	if len(seen) == 0 {
		t.Fatal("no events received")
	}
	last := seen[len(seen)-1]
	if last.Kind != EventCompleted {
		t.Fatalf("last event = %+v, want EventCompleted", last)
	}

	foundOutput := false
	for _, e := range seen[:len(seen)-1] {
		if e.Kind == EventOutput && strings.Contains(e.Line, "hello") {
			foundOutput = true
		}
	}
	if !foundOutput {
		t.Error("did not observe the echoed output line")
	}

	status := waitForDone(t, sup, "task-ok", time.Second)
	if status != StatusCompleted {
		t.Errorf("CheckTaskCompletion() = %v, want StatusCompleted", status)
	}
}

func TestStartNonZeroExit(t *testing.T) {
	sup := New(t.TempDir())
	spec := config.AgentSpec{Command: "sh", Args: []string{"-c", "exit 3"}}

	events, err := sup.Start(context.Background(), "task-fail", "shell", spec, t.TempDir(), "unused")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	seen := drain(events)
	last := seen[len(seen)-1]
	if last.Kind != EventFailed {
		t.Fatalf("last event = %+v, want EventFailed", last)
	}
	if !strings.Contains(last.Error, "3") {
		t.Errorf("FailureReason/Error = %q, want it to mention exit code 3", last.Error)
	}

	status := waitForDone(t, sup, "task-fail", time.Second)
	if status != StatusFailed {
		t.Errorf("CheckTaskCompletion() = %v, want StatusFailed", status)
	}
}

func TestStopTerminatesRunningAgent(t *testing.T) {
	sup := New(t.TempDir())
	spec := config.AgentSpec{Command: "sh", Args: []string{"-c", "sleep 30"}}

	events, err := sup.Start(context.Background(), "task-stop", "shell", spec, t.TempDir(), "unused")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	sup.Stop("task-stop")

	status := waitForDone(t, sup, "task-stop", 2*time.Second)
	if status != StatusFailed {
		t.Errorf("status after Stop() = %v, want StatusFailed", status)
	}
	ra := sup.Get("task-stop")
	if ra == nil {
		t.Fatal("Get() returned nil after Stop()")
	}
	if ra.FailureReason != "Stopped by user" {
		t.Errorf("FailureReason = %q, want %q", ra.FailureReason, "Stopped by user")
	}

	for range events {
		// drain to confirm the channel is closed, not left dangling
	}
}

func TestRunningCount(t *testing.T) {
	sup := New(t.TempDir())
	spec := config.AgentSpec{Command: "sh", Args: []string{"-c", "sleep 30"}}

	if _, err := sup.Start(context.Background(), "task-a", "shell", spec, t.TempDir(), "unused"); err != nil {
		t.Fatal(err)
	}
	if _, err := sup.Start(context.Background(), "task-b", "shell", spec, t.TempDir(), "unused"); err != nil {
		t.Fatal(err)
	}

	if got := sup.RunningCount(); got != 2 {
		t.Errorf("RunningCount() = %d, want 2", got)
	}

	sup.Stop("task-a")
	waitForDone(t, sup, "task-a", 2*time.Second)

	if got := sup.RunningCount(); got != 1 {
		t.Errorf("RunningCount() after stopping one = %d, want 1", got)
	}

	sup.Stop("task-b")
	waitForDone(t, sup, "task-b", 2*time.Second)
}

func TestCheckTaskCompletionUnknownID(t *testing.T) {
	sup := New(t.TempDir())
	if _, ok := sup.CheckTaskCompletion("task-never-started"); ok {
		t.Error("CheckTaskCompletion() on an unknown id returned ok = true")
	}
}

func TestStopUnknownIDIsNoOp(t *testing.T) {
	sup := New(t.TempDir())
	sup.Stop("task-never-started")
}

func TestStderrLinesArePrefixed(t *testing.T) {
	sup := New(t.TempDir())
	spec := config.AgentSpec{Command: "sh", Args: []string{"-c", "echo oops 1>&2"}}

	events, err := sup.Start(context.Background(), "task-stderr", "shell", spec, t.TempDir(), "unused")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	foundPrefixed := false
	for _, e := range drain(events) {
		if e.Kind == EventOutput && strings.HasPrefix(e.Line, "[stderr] ") && strings.Contains(e.Line, "oops") {
			foundPrefixed = true
		}
	}
	if !foundPrefixed {
		t.Error("did not observe a prefixed stderr line")
	}
}

func TestRemoveStopsRunningAgent(t *testing.T) {
	sup := New(t.TempDir())
	spec := config.AgentSpec{Command: "sh", Args: []string{"-c", "sleep 30"}}

	if _, err := sup.Start(context.Background(), "task-remove", "shell", spec, t.TempDir(), "unused"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	sup.Remove("task-remove")

	if ra := sup.Get("task-remove"); ra != nil {
		t.Error("Get() returned a record after Remove()")
	}
}

func TestStartUnknownBinaryErrors(t *testing.T) {
	sup := New(t.TempDir())
	spec := config.AgentSpec{Command: "hive-agent-does-not-exist-anywhere"}

	_, err := sup.Start(context.Background(), "task-missing-binary", "ghost", spec, t.TempDir(), "unused")
	if err == nil {
		t.Fatal("Start() with an unresolvable binary returned nil error")
	}
}

func TestPromptIsAppendedAsFinalArg(t *testing.T) {
	sup := New(t.TempDir())
	spec := config.AgentSpec{Command: "sh", Args: []string{"-c", `echo "$1"`, "_"}}

	events, err := sup.Start(context.Background(), "task-prompt", "shell", spec, t.TempDir(), "the prompt text")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	found := false
	for _, e := range drain(events) {
		if e.Kind == EventOutput && strings.Contains(e.Line, "the prompt text") {
			found = true
		}
	}
	if !found {
		t.Error("prompt was not passed through as the final positional argument")
	}
}
