// Package task defines the Task entity and its lifecycle state machine.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a Task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusPlanning   Status = "planning"
	StatusPlanReview Status = "plan_review"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// Column is the UI-facing kanban column a status projects to.
// Cancelled has no column and projects to ColumnHidden.
type Column int

const (
	ColumnTodo Column = iota
	ColumnInProgress
	ColumnReview
	ColumnDone
	ColumnHidden
)

// Column returns the kanban column this status projects to.
func (s Status) Column() Column {
	switch s {
	case StatusTodo:
		return ColumnTodo
	case StatusPlanning, StatusPlanReview, StatusInProgress:
		return ColumnInProgress
	case StatusReview:
		return ColumnReview
	case StatusDone:
		return ColumnDone
	default:
		return ColumnHidden
	}
}

// idPrefix is the fixed prefix for every generated task id.
const idPrefix = "task-"

// BranchPrefix is the default VCS branch namespace tasks are created
// under; configurable by callers that build branch names directly
// through the worktree manager instead.
const BranchPrefix = "hive"

// Task is the central entity tracked by the lifecycle coordinator.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Planner     *string   `json:"planner,omitempty"`
	Executor    *string   `json:"executor,omitempty"`
	// Agent mirrors Executor for readers written against the earlier
	// single-agent schema. Kept in sync by AssignExecutor/ClearExecutor;
	// do not remove without versioning the on-disk schema.
	Agent       *string    `json:"agent,omitempty"`
	Branch      *string    `json:"branch,omitempty"`
	Worktree    *string    `json:"worktree,omitempty"`
	PRURL       *string    `json:"pr_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// New creates a fresh Task in Todo status with a process-unique id.
func New(title, description string) *Task {
	return &Task{
		ID:          generateID(),
		Title:       title,
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   time.Now().UTC(),
	}
}

// generateID builds "task-<suffix>" where suffix is the first segment
// of a v4 UUID — short enough to read in logs, random enough that
// callers must never parse it for meaning.
func generateID() string {
	suffix, _, _ := strings.Cut(uuid.NewString(), "-")
	return idPrefix + suffix
}

// SetStatus mutates the task's status and updates timestamps per the
// data-model rule: started_at is set the first time status reaches
// Planning or InProgress; completed_at is set on Done or Cancelled.
// The caller is authoritative — no transition validation happens here.
func (t *Task) SetStatus(s Status) {
	t.Status = s
	now := time.Now().UTC()
	switch s {
	case StatusPlanning, StatusInProgress:
		if t.StartedAt == nil {
			t.StartedAt = &now
		}
	case StatusDone, StatusCancelled:
		t.CompletedAt = &now
	}
}

// AssignPlanner records the chosen planner agent name.
func (t *Task) AssignPlanner(name string) {
	t.Planner = &name
}

// AssignExecutor records the chosen executor agent name, keeping the
// legacy Agent mirror field in sync.
func (t *Task) AssignExecutor(name string) {
	t.Executor = &name
	t.Agent = &name
}

// ClearPlanner removes the planner assignment (used by the revert path).
func (t *Task) ClearPlanner() {
	t.Planner = nil
}

// ClearExecutor removes the executor assignment and its legacy mirror.
func (t *Task) ClearExecutor() {
	t.Executor = nil
	t.Agent = nil
}

// SetBranchAndWorktree records the task's VCS branch and worktree path.
// The two are always set together per data-model invariant 3.
func (t *Task) SetBranchAndWorktree(branch, worktree string) {
	t.Branch = &branch
	t.Worktree = &worktree
}

// CanAdvance reports the next status reachable from the current one, or
// an error describing why advancing is refused. It is a pure function
// over in-memory state only — artifact checks (plan file existence,
// worktree presence) are the coordinator's job, since they require I/O.
func (t *Task) CanAdvance() (Status, error) {
	switch t.Status {
	case StatusTodo:
		if t.Planner == nil {
			return "", errNoPlanner
		}
		return StatusPlanning, nil
	case StatusPlanning:
		// Plan-file existence is checked externally by the coordinator.
		return StatusPlanReview, nil
	case StatusPlanReview:
		if t.Executor == nil {
			return "", errNoExecutor
		}
		return StatusInProgress, nil
	case StatusInProgress:
		return StatusReview, nil
	case StatusReview:
		return StatusDone, nil
	default:
		return "", errCannotAdvance
	}
}

// RetreatTarget returns the status a manual retreat moves to, or false
// if the current status has no defined retreat.
//
// InProgress deliberately retreats to Planning, skipping PlanReview:
// retreating implementation means the plan itself is being revised.
func (t *Task) RetreatTarget() (Status, bool) {
	switch t.Status {
	case StatusPlanning:
		return StatusTodo, true
	case StatusPlanReview:
		return StatusPlanning, true
	case StatusInProgress:
		return StatusPlanning, true
	case StatusReview:
		return StatusInProgress, true
	case StatusDone:
		return StatusReview, true
	default:
		return "", false
	}
}
