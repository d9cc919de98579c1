package worker

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/steward-sh/steward/pkg/models"
)

// Toolbox is the only path through which an executor touches resources or
// the task record. It checks scope before every mutation and carries the
// blocker protocol, so an executor cannot expand its own authority.
type Toolbox struct {
	unit *Unit
	ec   Context

	mu        sync.Mutex
	lines     []string
	essential bool
}

func newToolbox(u *Unit, ec Context) *Toolbox {
	return &Toolbox{unit: u, ec: ec}
}

// CheckPath reports whether the task's scope permits touching path. The
// returned error is a *scope.ViolationError when it does not.
func (tb *Toolbox) CheckPath(path string) error {
	return tb.unit.validator.Check(path, tb.ec.Scope)
}

// Mutate runs op only after the path passes the scope check. The check is
// mandatory before every resource-mutating operation; a violation refuses
// the operation and is never silently ignored.
func (tb *Toolbox) Mutate(path string, op func() error) error {
	if err := tb.CheckPath(path); err != nil {
		return err
	}
	return op()
}

// SpawnBlocker hands off an out-of-scope sub-problem as a new tracked task:
// child of the current task, in the same project, with the minimal scope
// the sub-problem implicates. The child id is recorded in the current
// task's result summary. Essential marks the skipped portion as required
// for completion, forcing the current task to end blocked.
func (tb *Toolbox) SpawnBlocker(domain string, blockerScope []string, description string, essential bool) (string, error) {
	child := &models.Task{
		ProjectID:    tb.ec.ProjectID,
		ParentTaskID: tb.ec.TaskID,
		Domain:       domain,
		Scope:        blockerScope,
		Description:  description,
	}
	if err := tb.unit.store.CreateTask(child); err != nil {
		return "", fmt.Errorf("spawn blocker: %w", err)
	}

	tb.mu.Lock()
	if essential {
		tb.essential = true
	}
	tb.mu.Unlock()

	if err := tb.Note(fmt.Sprintf("spawned blocker %s (domain %s)", child.ID, domain)); err != nil {
		return child.ID, err
	}
	if err := tb.unit.store.RecordNote(tb.ec.TaskID, fmt.Sprintf("blocker spawned: %s", child.ID)); err != nil {
		return child.ID, err
	}

	if tb.unit.opts.OnBlocker != nil {
		tb.unit.opts.OnBlocker(tb.ec.TaskID, child.ID, domain)
	}
	if tb.unit.opts.WaitForBlockers {
		tb.waitForBlocker(child.ID)
	}
	return child.ID, nil
}

// Skip marks a portion of work as explicitly skipped, with a reference to
// the blocker task that now owns it.
func (tb *Toolbox) Skip(path, blockerID string) error {
	return tb.Note(fmt.Sprintf("skipped %s: deferred to task %s", path, blockerID))
}

// Note appends a line to the task's result summary. The line is persisted
// immediately so mid-flight queries see blocker references; a persistence
// failure is returned, though the line is retained in memory and lands
// again at the terminal transition.
func (tb *Toolbox) Note(line string) error {
	tb.mu.Lock()
	tb.lines = append(tb.lines, line)
	tb.mu.Unlock()
	return tb.unit.store.AppendResultSummary(tb.ec.TaskID, line)
}

// Task returns a copy of the unit's own task record. Executors use it to
// read the description and scope; all mutation still goes through the
// store's transition contract.
func (tb *Toolbox) Task() (*models.Task, error) {
	return tb.unit.store.GetTask(tb.ec.TaskID)
}

// Tier returns the escalation tier selected during Analyze.
func (tb *Toolbox) Tier() models.EscalationTier {
	return tb.unit.Tier()
}

// waitForBlocker polls until the child reaches a terminal state or the
// configured timeout passes. Timing out is not an error: the hand-off
// already happened and the child remains tracked.
func (tb *Toolbox) waitForBlocker(childID string) {
	deadline := time.Now().Add(tb.unit.opts.BlockerWaitTimeout)
	for time.Now().Before(deadline) {
		child, err := tb.unit.store.GetTask(childID)
		if err != nil || child == nil {
			return
		}
		if child.Status.Terminal() {
			tb.Note(fmt.Sprintf("blocker %s resolved: %s", childID, child.Status))
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	tb.Note(fmt.Sprintf("gave up waiting on blocker %s", childID))
}

func (tb *Toolbox) essentialBlocked() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.essential
}

func (tb *Toolbox) notes() string {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return strings.Join(tb.lines, "\n")
}
