package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/steward-sh/steward/internal/assess"
	"github.com/steward-sh/steward/internal/registry"
	"github.com/steward-sh/steward/internal/scope"
	"github.com/steward-sh/steward/internal/state"
	"github.com/steward-sh/steward/internal/worker"
	"github.com/steward-sh/steward/pkg/models"
)

// Request is one unit of incoming work.
type Request struct {
	ProjectID   string
	Domain      string
	Scope       []string
	Description string
}

// TaskHandle is returned from a dispatch: the created task and its status
// at return time.
type TaskHandle struct {
	TaskID string
	Status models.TaskStatus
}

// TaskView is the external query shape for one task.
type TaskView struct {
	TaskID          string
	Status          models.TaskStatus
	ComplexityScore *int
	ResultSummary   string
}

// Config wires a coordinator. Store and Registry are required.
type Config struct {
	Store     *state.DB
	Registry  *registry.Registry
	Validator *scope.Validator
	Logger    *Logger
	// Executors maps domains to their executors. Domains without an entry
	// run the stock triage executor.
	Executors map[string]worker.Executor
	// MaxConcurrent bounds parallel workers. Zero means 4.
	MaxConcurrent int
	// WorkerOptions are applied to every launched unit.
	WorkerOptions worker.Options
}

// Coordinator routes requests to workers and tracks the resulting tasks.
type Coordinator struct {
	store     *state.DB
	reg       *registry.Registry
	validator *scope.Validator
	logger    *Logger
	executors map[string]worker.Executor
	wopts     worker.Options
	pause     *PauseController

	sem    chan struct{}
	events chan Event
	wg     sync.WaitGroup

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// New creates a coordinator from the config.
func New(cfg Config) (*Coordinator, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("coordinator: store is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("coordinator: registry is required")
	}
	if cfg.Validator == nil {
		cfg.Validator = scope.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger()
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	return &Coordinator{
		store:     cfg.Store,
		reg:       cfg.Registry,
		validator: cfg.Validator,
		logger:    cfg.Logger,
		executors: cfg.Executors,
		wopts:     cfg.WorkerOptions,
		pause:     NewPauseController(),
		sem:       make(chan struct{}, cfg.MaxConcurrent),
		events:    make(chan Event, 100),
		cancels:   make(map[string]context.CancelFunc),
	}, nil
}

// Events returns the coordinator's event stream. Events are dropped, not
// blocked on, when nothing drains the channel.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

// Pause stops new workers from launching until Resume.
func (c *Coordinator) Pause() { c.pause.Pause() }

// Resume re-enables worker launching.
func (c *Coordinator) Resume() { c.pause.Resume() }

// Dispatch routes a request, creates its task, and launches the worker in
// the background. The returned handle carries the task in todo; the worker
// claims it asynchronously.
func (c *Coordinator) Dispatch(ctx context.Context, req Request) (*TaskHandle, error) {
	task, err := c.admit(req)
	if err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.runWorker(ctx, task)
	}()

	return &TaskHandle{TaskID: task.ID, Status: task.Status}, nil
}

// DispatchWait is Dispatch with sequential semantics: it returns only after
// the task reaches a terminal state.
func (c *Coordinator) DispatchWait(ctx context.Context, req Request) (*TaskHandle, error) {
	task, err := c.admit(req)
	if err != nil {
		return nil, err
	}
	c.runWorker(ctx, task)

	final, err := c.store.GetTask(task.ID)
	if err != nil {
		return nil, err
	}
	return &TaskHandle{TaskID: final.ID, Status: final.Status}, nil
}

// admit runs the routing and scoping steps and creates the task record.
// There is never a fallback route and never a widened scope: an unroutable
// domain or an empty intersection fails the dispatch outright.
func (c *Coordinator) admit(req Request) (*models.Task, error) {
	desc, err := c.reg.Route(req.Domain)
	if err != nil {
		c.logger.Log("coordinator", "dispatch refused: %v", err)
		return nil, err
	}

	effective := scope.Intersect(req.Scope, desc.AcceptedScopes)
	if len(effective) == 0 {
		err := &ScopeConflictError{Domain: req.Domain, Requested: req.Scope, Accepted: desc.AcceptedScopes}
		c.logger.Log("coordinator", "dispatch refused: %v", err)
		return nil, err
	}

	task := &models.Task{
		ProjectID:   req.ProjectID,
		Domain:      req.Domain,
		Scope:       effective,
		Description: req.Description,
	}
	if err := c.store.CreateTask(task); err != nil {
		return nil, err
	}

	c.logger.Log("coordinator", "task %s queued: domain=%s scope=%v", task.ID, task.Domain, task.Scope)
	c.emit(Event{Type: EventTaskQueued, TaskID: task.ID, Domain: task.Domain})
	return task, nil
}

// runWorker launches the unit for a task with its embedded context. The
// worker receives exactly the tuple it may act on; it never discovers tasks
// or projects on its own.
func (c *Coordinator) runWorker(ctx context.Context, task *models.Task) {
	if err := c.pause.WaitIfPaused(ctx); err != nil {
		c.fail(task, fmt.Sprintf("never started: %v", err))
		return
	}

	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	wctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancels[task.ID] = cancel
	c.mu.Unlock()
	defer func() {
		cancel()
		c.mu.Lock()
		delete(c.cancels, task.ID)
		c.mu.Unlock()
	}()

	desc, err := c.reg.Route(task.Domain)
	if err != nil {
		c.fail(task, err.Error())
		return
	}

	opts := c.wopts
	opts.OnComplexity = c.onComplexity(task)
	opts.OnBlocker = c.onBlocker

	unit := worker.New(c.store, c.validator, desc, c.executorFor(task.Domain), opts)
	ec := worker.Context{ProjectID: task.ProjectID, TaskID: task.ID, Scope: task.Scope}

	c.emit(Event{Type: EventTaskStarted, TaskID: task.ID, Domain: task.Domain})
	c.logger.Log("worker", "task %s starting (domain %s)", task.ID, task.Domain)

	if err := unit.Run(wctx, ec); err != nil {
		var rejected *state.TransitionRejectedError
		if errors.As(err, &rejected) && rejected.Current.Terminal() {
			// The task was cancelled or finished elsewhere before the claim.
			c.logger.Log("worker", "task %s already %s, not claimed", task.ID, rejected.Current)
			return
		}
		c.logger.Log("worker", "task %s failed: %v", task.ID, err)
		c.emit(Event{Type: EventWorkerFailed, TaskID: task.ID, Domain: task.Domain, Message: err.Error()})
		return
	}
	c.emitTerminal(task.ID, task.Domain)
}

// Cancel cancels a task. A todo task is refused outright; an in-progress
// task gets a cooperative signal its worker observes at the next phase
// boundary. Terminal tasks cannot be cancelled.
func (c *Coordinator) Cancel(taskID string) error {
	task, err := c.store.GetTask(taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return &state.TaskNotFoundError{TaskID: taskID}
	}

	switch {
	case task.Status == models.TaskStatusTodo:
		ok, current, err := c.store.TransitionWithSummary(taskID, models.TaskStatusTodo, models.TaskStatusRefused, "cancelled before execution")
		if err != nil {
			return err
		}
		if !ok {
			// A worker claimed it between the read and the CAS; fall through
			// to the cooperative path.
			if current == models.TaskStatusInProgress {
				return c.signalCancel(taskID)
			}
			return &state.TransitionRejectedError{TaskID: taskID, Expected: models.TaskStatusTodo, Next: models.TaskStatusRefused, Current: current}
		}
		c.logger.Log("coordinator", "task %s refused before execution", taskID)
		c.emit(Event{Type: EventTaskRefused, TaskID: taskID, Domain: task.Domain})
		return nil
	case task.Status == models.TaskStatusInProgress:
		return c.signalCancel(taskID)
	default:
		return fmt.Errorf("task %s is already %s", taskID, task.Status)
	}
}

func (c *Coordinator) signalCancel(taskID string) error {
	c.mu.Lock()
	cancel, ok := c.cancels[taskID]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("task %s has no in-process worker to signal", taskID)
	}
	cancel()
	c.logger.Log("coordinator", "task %s signalled to stop at the next phase boundary", taskID)
	return nil
}

// Query returns the external view of one task, nil when it does not exist.
func (c *Coordinator) Query(taskID string) (*TaskView, error) {
	task, err := c.store.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	return &TaskView{
		TaskID:          task.ID,
		Status:          task.Status,
		ComplexityScore: task.ComplexityScore,
		ResultSummary:   task.ResultSummary,
	}, nil
}

// Wait blocks until all launched workers return.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// onComplexity records high-risk tasks in the audit trail the moment their
// score is known.
func (c *Coordinator) onComplexity(task *models.Task) func(string, int, models.EscalationTier) {
	return func(taskID string, score int, tier models.EscalationTier) {
		c.logger.Log("worker", "task %s scored %d (tier %s)", taskID, score, tier)
		if assess.HighRisk(score) {
			c.store.RecordNote(taskID, fmt.Sprintf("high-risk: complexity %d", score))
			c.emit(Event{Type: EventHighRisk, TaskID: taskID, Domain: task.Domain, Score: score, Tier: tier})
		}
	}
}

// onBlocker dispatches a spawned blocker child to its own worker when the
// child's domain routes; an unroutable child stays tracked in todo.
func (c *Coordinator) onBlocker(parentID, childID, domain string) {
	c.logger.Log("coordinator", "blocker %s spawned by %s (domain %s)", childID, parentID, domain)
	c.emit(Event{Type: EventBlockerSpawned, TaskID: childID, Domain: domain, Message: "spawned by " + parentID})

	child, err := c.store.GetTask(childID)
	if err != nil || child == nil {
		return
	}
	if _, err := c.reg.Route(domain); err != nil {
		c.store.RecordNote(childID, fmt.Sprintf("not auto-dispatched: %v", err))
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.runWorker(context.Background(), child)
	}()
}

// fail refuses a task that never got a worker so nothing is left dangling
// in todo without a record of why.
func (c *Coordinator) fail(task *models.Task, reason string) {
	c.store.TransitionWithSummary(task.ID, models.TaskStatusTodo, models.TaskStatusRefused, reason)
	c.emit(Event{Type: EventTaskRefused, TaskID: task.ID, Domain: task.Domain, Message: reason})
}

func (c *Coordinator) emitTerminal(taskID, domain string) {
	task, err := c.store.GetTask(taskID)
	if err != nil || task == nil {
		return
	}
	var t EventType
	switch task.Status {
	case models.TaskStatusCompleted:
		t = EventTaskCompleted
	case models.TaskStatusBlocked:
		t = EventTaskBlocked
	case models.TaskStatusRefused:
		t = EventTaskRefused
	default:
		return
	}
	c.logger.Log("worker", "task %s ended %s", taskID, task.Status)
	c.emit(Event{Type: t, TaskID: taskID, Domain: domain, Message: task.ResultSummary})
}

func (c *Coordinator) emit(e Event) {
	e.Timestamp = time.Now()
	select {
	case c.events <- e:
	default:
	}
}

func (c *Coordinator) executorFor(domain string) worker.Executor {
	if exec, ok := c.executors[domain]; ok {
		return exec
	}
	return worker.NewTriageExecutor()
}
