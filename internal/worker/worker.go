// Package worker implements the generic execution unit that carries a task
// through its Analyze, Execute and Validate phases. The unit owns its task
// for the duration of the run: it claims it with a compare-and-swap
// transition, writes the complexity score, enforces scope on every mutation
// through the toolbox, and ends the task in exactly one terminal state.
package worker

import (
	"context"
	"fmt"

	"github.com/steward-sh/steward/internal/assess"
	"github.com/steward-sh/steward/internal/scope"
	"github.com/steward-sh/steward/internal/state"
	"github.com/steward-sh/steward/pkg/models"
)

// Context is the embedded context a unit receives at invocation. The unit
// never discovers tasks or projects on its own; everything it may touch is
// in here.
type Context struct {
	ProjectID string
	TaskID    string
	Scope     []string
}

// Executor supplies the domain-specific behavior for each phase. The unit
// drives the phase order and the task lifecycle; the executor does the
// actual work through the toolbox it is handed.
type Executor interface {
	// Analyze is a read-only pass over the inputs in scope. It returns the
	// complexity factors for this task; the unit scores and records them.
	Analyze(ctx context.Context, ec Context, tb *Toolbox) (assess.Factors, error)
	// Execute performs the domain work. Every mutation must go through the
	// toolbox so scope is checked first.
	Execute(ctx context.Context, ec Context, tb *Toolbox) error
	// Validate verifies the executor's own output. An error here moves the
	// task to blocked, never to completed.
	Validate(ctx context.Context, ec Context, tb *Toolbox) error
}

// Unit runs one task through its phases.
type Unit struct {
	store      *state.DB
	validator  *scope.Validator
	descriptor models.WorkerDescriptor
	executor   Executor
	opts       Options

	tier models.EscalationTier
}

// New creates a unit for one descriptor/executor pair.
func New(store *state.DB, validator *scope.Validator, descriptor models.WorkerDescriptor, executor Executor, opts Options) *Unit {
	opts.applyDefaults()
	return &Unit{
		store:      store,
		validator:  validator,
		descriptor: descriptor,
		executor:   executor,
		opts:       opts,
	}
}

// Tier returns the escalation tier selected during Analyze. TierNone before
// Analyze completes.
func (u *Unit) Tier() models.EscalationTier {
	if u.tier == "" {
		return models.TierNone
	}
	return u.tier
}

// Run claims the task and drives it to a terminal state. The returned error
// reports infrastructure failures only; domain-level outcomes (blocked,
// refused) are task states, not errors.
func (u *Unit) Run(ctx context.Context, ec Context) error {
	if err := u.claim(ec.TaskID); err != nil {
		return err
	}

	tb := newToolbox(u, ec)

	// Cancellation is cooperative and observed at phase boundaries only.
	if err := ctx.Err(); err != nil {
		return u.finish(ec, tb, models.TaskStatusBlocked, "cancelled before analyze phase")
	}
	if err := u.analyze(ctx, ec, tb); err != nil {
		return u.finish(ec, tb, models.TaskStatusBlocked, fmt.Sprintf("analyze failed: %v", err))
	}

	if err := ctx.Err(); err != nil {
		return u.finish(ec, tb, models.TaskStatusBlocked, "cancelled before execute phase")
	}
	if err := u.executor.Execute(ctx, ec, tb); err != nil {
		return u.finish(ec, tb, models.TaskStatusBlocked, fmt.Sprintf("execute failed: %v", err))
	}

	if err := ctx.Err(); err != nil {
		return u.finish(ec, tb, models.TaskStatusBlocked, "cancelled before validate phase")
	}
	if err := u.executor.Validate(ctx, ec, tb); err != nil {
		vf := &ValidationFailedError{TaskID: ec.TaskID, Reason: err.Error()}
		return u.finish(ec, tb, models.TaskStatusBlocked, vf.Error())
	}

	if tb.essentialBlocked() {
		return u.finish(ec, tb, models.TaskStatusBlocked, "essential work delegated to blocker tasks")
	}
	return u.finish(ec, tb, models.TaskStatusCompleted, "done")
}

// claim moves the task from todo to in_progress. A task cancelled before
// the claim lands in refused; the CAS rejection surfaces here.
func (u *Unit) claim(taskID string) error {
	return u.transition(taskID, models.TaskStatusTodo, models.TaskStatusInProgress, "")
}

func (u *Unit) analyze(ctx context.Context, ec Context, tb *Toolbox) error {
	factors, err := u.executor.Analyze(ctx, ec, tb)
	if err != nil {
		return err
	}
	score := assess.Assess(factors)
	if err := u.store.SetComplexity(ec.TaskID, score); err != nil {
		return err
	}
	u.tier = u.descriptor.Policy().TierFor(score)
	if u.opts.OnComplexity != nil {
		u.opts.OnComplexity(ec.TaskID, score, u.tier)
	}
	return nil
}

// finish drives the terminal transition, retrying CAS rejections within the
// budget. A task that cannot reach its terminal state is an infrastructure
// failure, never silently dropped.
func (u *Unit) finish(ec Context, tb *Toolbox, terminal models.TaskStatus, summary string) error {
	if notes := tb.notes(); notes != "" {
		summary = notes + "\n" + summary
	}
	return u.transition(ec.TaskID, models.TaskStatusInProgress, terminal, summary)
}

// transition is the CAS retry loop. Re-reading the current status and
// retrying makes sense only while the stored status still matches the
// expectation; anything else is a real conflict.
func (u *Unit) transition(taskID string, expected, next models.TaskStatus, summary string) error {
	var current models.TaskStatus
	for attempt := 0; attempt < u.opts.TransitionRetries; attempt++ {
		ok, cur, err := u.store.TransitionWithSummary(taskID, expected, next, summary)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		current = cur
		if current != expected {
			break
		}
	}
	return &state.TransitionRejectedError{TaskID: taskID, Expected: expected, Next: next, Current: current}
}
