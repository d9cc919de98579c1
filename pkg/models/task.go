package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusTodo indicates the task has been created but not claimed.
	TaskStatusTodo TaskStatus = "todo"
	// TaskStatusInProgress indicates a worker has claimed the task.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusBlocked indicates the task cannot be completed as scoped.
	TaskStatusBlocked TaskStatus = "blocked"
	// TaskStatusCompleted indicates the task finished and passed validation.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusRefused indicates the task was rejected or cancelled before
	// meaningful work happened.
	TaskStatusRefused TaskStatus = "refused"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusBlocked, TaskStatusCompleted, TaskStatusRefused:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is final. A task never leaves a
// terminal status.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusBlocked, TaskStatusCompleted, TaskStatusRefused:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next follows the task
// state machine:
//
//	todo -> in_progress -> {completed | blocked | refused}
//	todo -> refused (cancellation before a worker claims the task)
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case TaskStatusTodo:
		return next == TaskStatusInProgress || next == TaskStatusRefused
	case TaskStatusInProgress:
		return next == TaskStatusCompleted || next == TaskStatusBlocked || next == TaskStatusRefused
	default:
		return false
	}
}

// Task represents a unit of trackable work.
type Task struct {
	// ID is the unique identifier for this task, assigned at creation.
	ID string `json:"id"`
	// ProjectID identifies the owning project. Immutable.
	ProjectID string `json:"project_id"`
	// ParentTaskID is a back-reference to the task that spawned this one
	// via the blocker protocol, if any.
	ParentTaskID string `json:"parent_task_id,omitempty"`
	// Domain is the capability tag required to execute this task.
	Domain string `json:"domain"`
	// Scope is the ordered set of allowed resource-path prefixes for this
	// task's execution. Assigned at creation and immutable; re-scoping
	// means creating a new task.
	Scope []string `json:"scope"`
	// Status is the current lifecycle state.
	Status TaskStatus `json:"status"`
	// Description is the free-text statement of the work.
	Description string `json:"description,omitempty"`
	// ComplexityScore is the 0-10 score set when analysis completes.
	// Nil before analysis.
	ComplexityScore *int `json:"complexity_score,omitempty"`
	// ResultSummary is the free-text outcome, set only on terminal states.
	ResultSummary string `json:"result_summary,omitempty"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
	// CompletedAt is when the task reached a terminal state, if it has.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
