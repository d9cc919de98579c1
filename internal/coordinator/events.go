// Package coordinator accepts work requests, routes each to exactly one
// worker, and tracks the resulting tasks. It is the only component that
// creates top-level tasks and launches execution units.
package coordinator

import (
	"time"

	"github.com/steward-sh/steward/pkg/models"
)

// EventType classifies a coordinator event.
type EventType string

const (
	// EventTaskQueued indicates a task was created and queued for execution.
	EventTaskQueued EventType = "task_queued"
	// EventTaskStarted indicates a worker claimed the task.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates the task reached completed.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskBlocked indicates the task reached blocked.
	EventTaskBlocked EventType = "task_blocked"
	// EventTaskRefused indicates the task was refused before a worker claimed it.
	EventTaskRefused EventType = "task_refused"
	// EventBlockerSpawned indicates a worker handed off out-of-scope work.
	EventBlockerSpawned EventType = "blocker_spawned"
	// EventHighRisk indicates a task scored at or above the high-risk threshold.
	EventHighRisk EventType = "high_risk"
	// EventWorkerFailed indicates a unit failed on infrastructure, not domain outcome.
	EventWorkerFailed EventType = "worker_failed"
)

// Event is emitted by the coordinator for the board and the session log.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the id of the related task.
	TaskID string
	// Domain is the task's capability tag, if applicable.
	Domain string
	// Message provides additional context about the event.
	Message string
	// Score is the complexity score for high_risk events.
	Score int
	// Tier is the escalation tier selected during analysis, if applicable.
	Tier models.EscalationTier
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
