// Package coordinator is the lifecycle coordinator: the only stateful
// mediator between a UI and the task store, worktree manager,
// validator, orchestrator config, plan repository, and agent
// supervisor. Grounded on the original implementation's Coordinator
// (agent/orchestrator.rs): it owns the task collection, drains a
// single inbound event stream, and reacts to agent completion/failure
// by advancing or reverting task status.
package coordinator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/taskhive/hive/internal/agent"
	"github.com/taskhive/hive/internal/config"
	"github.com/taskhive/hive/internal/planrepo"
	"github.com/taskhive/hive/internal/store"
	"github.com/taskhive/hive/internal/task"
	"github.com/taskhive/hive/internal/vcs"
	"github.com/taskhive/hive/internal/workspace"
)

// planFileGrace bounds how long onCompleted waits on a plan-file write
// event before concluding the planner really didn't produce one. It
// exists because the planner subprocess's exit and its plan file's
// rename-into-place are not synchronized: a bare PlanFileExists stat
// immediately after Completed can race a planner that is still
// flushing the file to disk.
const planFileGrace = 500 * time.Millisecond

// EventKind discriminates a coordinator Event.
type EventKind int

const (
	EventOutput EventKind = iota
	EventCompleted
	EventFailed
)

// Event is one entry on the coordinator's inbound stream, forwarded
// from a task's agent supervisor channel and tagged with its task id.
type Event struct {
	TaskID string
	Kind   EventKind
	Line   string
	Error  string
}

// ringCapacity is the process-wide cap on buffered output lines.
const ringCapacity = 100

// inboundCapacity buffers coordinator events between a Start call's
// forwarding goroutine and the next DrainEvents call.
const inboundCapacity = 512

// Coordinator drives tasks through the lifecycle state machine.
type Coordinator struct {
	mu    sync.Mutex
	tasks []*task.Task
	ring  []string
	notes []string

	repoRoot   string
	baseBranch string

	store      *store.Store
	plans      *planrepo.Repository
	worktree   *vcs.Worktree
	validator  *vcs.Validator
	cfg        *config.Config
	supervisor *agent.Supervisor

	inbound chan Event
}

// New wires a Coordinator against a workspace root: loads tasks.json
// and config.json from .hive/, and constructs the worktree manager,
// validator, plan repository, and agent supervisor around runner.
func New(repoRoot string, runner vcs.Runner) (*Coordinator, error) {
	cfg, cfgErr := config.Load(workspace.ConfigPath(repoRoot))

	st := store.New(workspace.TasksPath(repoRoot))
	tasks, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	c := &Coordinator{
		tasks:      tasks,
		repoRoot:   repoRoot,
		baseBranch: cfg.BaseBranch,
		store:      st,
		plans:      planrepo.New(workspace.PlansDir(repoRoot)),
		worktree:   vcs.NewWorktree(runner, repoRoot, workspace.WorktreesDir(repoRoot), cfg.BranchPrefix),
		validator:  vcs.NewValidator(runner),
		cfg:        cfg,
		supervisor: agent.New(workspace.LogsDir(repoRoot)),
		inbound:    make(chan Event, inboundCapacity),
	}

	if cfgErr != nil {
		c.notice(fmt.Sprintf("config load warning: %v", cfgErr))
	}

	return c, nil
}

// Notices returns every status-line message surfaced so far (warnings,
// revert-path explanations, persistence failures). Cleared by nothing;
// callers that only want new messages should track their own offset.
func (c *Coordinator) Notices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.notes))
	copy(out, c.notes)
	return out
}

func (c *Coordinator) notice(msg string) {
	c.mu.Lock()
	c.notes = append(c.notes, msg)
	c.mu.Unlock()
}

func (c *Coordinator) pushRing(line string) {
	c.mu.Lock()
	c.ring = append(c.ring, line)
	if len(c.ring) > ringCapacity {
		c.ring = c.ring[len(c.ring)-ringCapacity:]
	}
	c.mu.Unlock()
}

// RecentLogLines returns up to n of the most recently buffered output
// lines, process-wide, oldest first.
func (c *Coordinator) RecentLogLines(n int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 || n > len(c.ring) {
		n = len(c.ring)
	}
	out := make([]string, n)
	copy(out, c.ring[len(c.ring)-n:])
	return out
}

// Snapshot returns a copy of the task collection for display.
func (c *Coordinator) Snapshot() []*task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*task.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// RunningCount reports how many agents are currently live.
func (c *Coordinator) RunningCount() int {
	return c.supervisor.RunningCount()
}

// GetDiff returns the raw textual diff of a task's worktree against
// base.
func (c *Coordinator) GetDiff(taskID, base string) (string, error) {
	return c.worktree.Diff(taskID, base)
}

func (c *Coordinator) findTask(id string) *task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (c *Coordinator) addTask(t *task.Task) {
	c.mu.Lock()
	c.tasks = append(c.tasks, t)
	c.mu.Unlock()
}

func (c *Coordinator) removeTask(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.tasks {
		if t.ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}

// persist rewrites tasks.json. Failures are logged as notices, never
// returned - the in-memory state is retained and the next successful
// save reconciles it, per the spec's persistence failure policy.
func (c *Coordinator) persist() {
	c.mu.Lock()
	snapshot := make([]*task.Task, len(c.tasks))
	copy(snapshot, c.tasks)
	c.mu.Unlock()

	if err := c.store.Save(snapshot); err != nil {
		c.notice(fmt.Sprintf("persist failed: %v", err))
	}
}

// spawn starts an agent and launches a goroutine forwarding its events
// onto the coordinator's inbound stream. A spawn failure is treated as
// an immediate Failed event, running the same revert path a post-spawn
// child failure would.
func (c *Coordinator) spawn(taskID, agentName string, spec config.AgentSpec, workDir, prompt string) error {
	ch, err := c.supervisor.Start(context.Background(), taskID, agentName, spec, workDir, prompt)
	if err != nil {
		c.onFailed(taskID, err.Error())
		return err
	}
	go c.forward(taskID, ch)
	return nil
}

func (c *Coordinator) forward(taskID string, ch <-chan agent.Event) {
	for e := range ch {
		ce := Event{TaskID: taskID}
		switch e.Kind {
		case agent.EventOutput:
			ce.Kind = EventOutput
			ce.Line = e.Line
		case agent.EventCompleted:
			ce.Kind = EventCompleted
		case agent.EventFailed:
			ce.Kind = EventFailed
			ce.Error = e.Error
		}
		c.inbound <- ce
	}
}

// DrainEvents processes every event currently queued on the inbound
// stream without blocking - the non-blocking drain a UI tick performs.
func (c *Coordinator) DrainEvents() {
	for {
		select {
		case e := <-c.inbound:
			c.handleEvent(e)
		default:
			return
		}
	}
}

func (c *Coordinator) handleEvent(e Event) {
	switch e.Kind {
	case EventOutput:
		c.pushRing(fmt.Sprintf("[%s] %s", e.TaskID, e.Line))
	case EventCompleted:
		c.onCompleted(e.TaskID)
	case EventFailed:
		c.onFailed(e.TaskID, e.Error)
	}
}

// onFailed implements the revert path: Planning reverts to Todo with
// the planner cleared, InProgress reverts to PlanReview with the
// executor cleared, anything else is left alone (a stale reap for a
// task already retreated or deleted).
func (c *Coordinator) onFailed(taskID, reason string) {
	t := c.findTask(taskID)
	if t == nil {
		return
	}

	switch t.Status {
	case task.StatusPlanning:
		t.SetStatus(task.StatusTodo)
		t.ClearPlanner()
		c.notice(fmt.Sprintf("task %s: planner failed (%s); planner cleared, reverted to todo", taskID, reason))
	case task.StatusInProgress:
		t.SetStatus(task.StatusPlanReview)
		t.ClearExecutor()
		c.notice(fmt.Sprintf("task %s: executor failed (%s); executor cleared, reverted to plan_review", taskID, reason))
	default:
		return
	}
	c.persist()
}

// onCompleted dispatches a successful exit based on the task's current
// status: Planning auto-advances to PlanReview and spawns the default
// executor once a plan file exists; InProgress advances to Review once
// the validator confirms real work happened.
func (c *Coordinator) onCompleted(taskID string) {
	t := c.findTask(taskID)
	if t == nil {
		return
	}

	switch t.Status {
	case task.StatusPlanning:
		if !c.plans.PlanFileExists(taskID) {
			// The planner has already exited; give its plan file a
			// short grace period to land before giving up, rather than
			// trusting a single immediate stat.
			ctx, cancel := context.WithTimeout(context.Background(), planFileGrace)
			watchErr := c.plans.WatchForPlan(ctx, taskID)
			cancel()
			if watchErr != nil || !c.plans.PlanFileExists(taskID) {
				c.notice(fmt.Sprintf("task %s: planner finished without writing a plan file; still in planning", taskID))
				return
			}
		}
		t.SetStatus(task.StatusPlanReview)
		c.persist()
		if err := c.StartExecutor(taskID, c.cfg.Orchestrator.DefaultExecutor); err != nil {
			c.notice(fmt.Sprintf("task %s: auto-start executor failed: %v", taskID, err))
		}
	case task.StatusInProgress:
		if t.Worktree == nil {
			return
		}
		hasCommits, err := c.validator.HasNewCommitsVs(*t.Worktree, c.baseBranch)
		if err != nil {
			c.notice(fmt.Sprintf("task %s: post-execution validation failed: %v", taskID, err))
			return
		}
		dirty, err := c.validator.HasUncommittedChanges(*t.Worktree)
		if err != nil {
			c.notice(fmt.Sprintf("task %s: post-execution validation failed: %v", taskID, err))
			return
		}
		if !hasCommits && !dirty {
			c.notice(fmt.Sprintf("task %s: executor finished without making any changes; still in progress", taskID))
			return
		}
		t.SetStatus(task.StatusReview)
		c.persist()
	default:
		return
	}
}

// CreateTask creates a task, persists it, and auto-starts the default
// planner.
func (c *Coordinator) CreateTask(title, description string) (*task.Task, error) {
	t := task.New(title, description)
	c.addTask(t)
	c.persist()

	if err := c.StartPlanner(t.ID, c.cfg.Orchestrator.DefaultPlanner); err != nil {
		return t, err
	}
	return t, nil
}

// StartPlanner validates the repo, creates the task's worktree, and
// spawns the named planner.
func (c *Coordinator) StartPlanner(taskID, plannerName string) error {
	t := c.findTask(taskID)
	if t == nil {
		return fmt.Errorf("start planner: task %s not found", taskID)
	}

	spec, ok := c.cfg.Planner(plannerName)
	if !ok {
		return fmt.Errorf("start planner for %s: unknown planner %q", taskID, plannerName)
	}

	branch := c.worktree.BranchName(taskID)
	result := c.validator.ValidateForTaskStart(c.repoRoot, branch)
	for _, w := range result.Warnings {
		c.notice(fmt.Sprintf("task %s: %s", taskID, w))
	}
	if !result.Valid {
		return fmt.Errorf("start planner for %s: %s", taskID, strings.Join(result.Errors, "; "))
	}

	path, err := c.worktree.Create(taskID)
	if err != nil {
		return fmt.Errorf("start planner for %s: %w", taskID, err)
	}

	t.AssignPlanner(plannerName)
	t.SetBranchAndWorktree(branch, path)
	t.SetStatus(task.StatusPlanning)
	c.persist()

	prompt := c.plans.PlanningPrompt(taskID, t.Title, t.Description)
	return c.spawn(taskID, plannerName, spec, path, prompt)
}

// StartExecutor builds the execution prompt from the task's plan and
// spawns the named executor inside the existing worktree.
func (c *Coordinator) StartExecutor(taskID, executorName string) error {
	t := c.findTask(taskID)
	if t == nil {
		return fmt.Errorf("start executor: task %s not found", taskID)
	}
	if t.Worktree == nil {
		return fmt.Errorf("start executor for %s: no worktree (planning has not run)", taskID)
	}

	spec, ok := c.cfg.Executor(executorName)
	if !ok {
		return fmt.Errorf("start executor for %s: unknown executor %q", taskID, executorName)
	}

	prompt, err := c.plans.ExecutionPrompt(taskID)
	if err != nil {
		return fmt.Errorf("start executor for %s: %w", taskID, err)
	}

	t.AssignExecutor(executorName)
	t.SetStatus(task.StatusInProgress)
	c.persist()

	return c.spawn(taskID, executorName, spec, *t.Worktree, prompt)
}

// Advance moves a task to the next status in its forward state
// machine, additionally requiring the plan file to exist when the
// target is PlanReview.
func (c *Coordinator) Advance(taskID string) error {
	t := c.findTask(taskID)
	if t == nil {
		return fmt.Errorf("advance: task %s not found", taskID)
	}

	next, err := t.CanAdvance()
	if err != nil {
		return fmt.Errorf("advance %s: %w", taskID, err)
	}
	if next == task.StatusPlanReview && !c.plans.PlanFileExists(taskID) {
		return fmt.Errorf("advance %s: Plan has not been created", taskID)
	}

	t.SetStatus(next)
	c.persist()
	return nil
}

// Retreat moves a task back to its manual retreat target, if any.
func (c *Coordinator) Retreat(taskID string) error {
	t := c.findTask(taskID)
	if t == nil {
		return fmt.Errorf("retreat: task %s not found", taskID)
	}

	target, ok := t.RetreatTarget()
	if !ok {
		return fmt.Errorf("retreat %s: no retreat available from %s", taskID, t.Status)
	}

	t.SetStatus(target)
	c.persist()
	return nil
}

// Delete stops any live agent, best-effort removes the task's
// worktree, and removes it from the store.
func (c *Coordinator) Delete(taskID string) error {
	t := c.findTask(taskID)
	if t == nil {
		return fmt.Errorf("delete: task %s not found", taskID)
	}

	c.supervisor.Remove(taskID)

	if t.Worktree != nil {
		if err := c.worktree.Remove(taskID); err != nil {
			c.notice(fmt.Sprintf("task %s: worktree removal failed: %v", taskID, err))
		}
	}

	c.removeTask(taskID)
	c.persist()
	return nil
}

// Stop signals a task's running agent to terminate.
func (c *Coordinator) Stop(taskID string) {
	c.supervisor.Stop(taskID)
}

// StartMerge gates a Review task for merging: requires the status and
// runs the post-implementation validator.
func (c *Coordinator) StartMerge(taskID string) error {
	t := c.findTask(taskID)
	if t == nil {
		return fmt.Errorf("start merge: task %s not found", taskID)
	}
	if t.Status != task.StatusReview {
		return fmt.Errorf("start merge %s: task is not in review", taskID)
	}
	if t.Worktree == nil {
		return fmt.Errorf("start merge %s: no worktree", taskID)
	}

	result := c.validator.ValidateImplementation(*t.Worktree, c.baseBranch)
	for _, w := range result.Warnings {
		c.notice(fmt.Sprintf("task %s: %s", taskID, w))
	}
	if !result.Valid {
		return fmt.Errorf("start merge %s: %s", taskID, strings.Join(result.Errors, "; "))
	}
	return nil
}

// ExecuteMerge merges the task's branch into the branch checked out in
// the repository root (see vcs.Worktree.Merge), marks it Done, and
// removes its worktree.
func (c *Coordinator) ExecuteMerge(taskID string) error {
	t := c.findTask(taskID)
	if t == nil {
		return fmt.Errorf("execute merge: task %s not found", taskID)
	}

	if err := c.worktree.Merge(taskID, c.baseBranch); err != nil {
		return fmt.Errorf("execute merge %s: %w", taskID, err)
	}

	t.SetStatus(task.StatusDone)
	c.persist()

	if err := c.worktree.Remove(taskID); err != nil {
		c.notice(fmt.Sprintf("task %s: worktree cleanup after merge failed: %v", taskID, err))
	}
	return nil
}
