package worker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/steward-sh/steward/internal/assess"
	"github.com/steward-sh/steward/internal/scope"
	"github.com/steward-sh/steward/internal/state"
	"github.com/steward-sh/steward/pkg/models"
)

// fakeExecutor drives the phases with test-supplied behavior.
type fakeExecutor struct {
	factors    assess.Factors
	analyzeErr error
	execute    func(ctx context.Context, ec Context, tb *Toolbox) error
	validate   func(ctx context.Context, ec Context, tb *Toolbox) error
}

func (f *fakeExecutor) Analyze(ctx context.Context, ec Context, tb *Toolbox) (assess.Factors, error) {
	return f.factors, f.analyzeErr
}

func (f *fakeExecutor) Execute(ctx context.Context, ec Context, tb *Toolbox) error {
	if f.execute != nil {
		return f.execute(ctx, ec, tb)
	}
	return nil
}

func (f *fakeExecutor) Validate(ctx context.Context, ec Context, tb *Toolbox) error {
	if f.validate != nil {
		return f.validate(ctx, ec, tb)
	}
	return nil
}

func setupTestDB(t *testing.T) *state.DB {
	t.Helper()
	db, err := state.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func createTask(t *testing.T, db *state.DB, taskScope []string) *models.Task {
	t.Helper()
	task := &models.Task{
		ProjectID:   "P1",
		Domain:      "test-repair",
		Scope:       taskScope,
		Description: "repair the failing auth tests",
	}
	if err := db.CreateTask(task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	return task
}

func testDescriptor() models.WorkerDescriptor {
	return models.WorkerDescriptor{
		Domain:         "test-repair",
		AcceptedScopes: []string{"tests/"},
	}
}

func runUnit(t *testing.T, db *state.DB, task *models.Task, exec Executor, opts Options) {
	t.Helper()
	unit := New(db, scope.New(), testDescriptor(), exec, opts)
	ec := Context{ProjectID: task.ProjectID, TaskID: task.ID, Scope: task.Scope}
	if err := unit.Run(context.Background(), ec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestRunCompletes(t *testing.T) {
	db := setupTestDB(t)
	task := createTask(t, db, []string{"tests/"})

	var gotScore int
	var gotTier models.EscalationTier
	exec := &fakeExecutor{factors: assess.Factors{TechnicalDepth: 2, Uncertainty: 1}}
	runUnit(t, db, task, exec, Options{
		OnComplexity: func(taskID string, score int, tier models.EscalationTier) {
			gotScore, gotTier = score, tier
		},
	})

	got, _ := db.GetTask(task.ID)
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("status = %s, want %s", got.Status, models.TaskStatusCompleted)
	}
	if got.ComplexityScore == nil || *got.ComplexityScore != 3 {
		t.Errorf("complexity = %v, want 3", got.ComplexityScore)
	}
	if gotScore != 3 || gotTier != models.TierNone {
		t.Errorf("OnComplexity got (%d, %s), want (3, %s)", gotScore, gotTier, models.TierNone)
	}
	if got.CompletedAt == nil {
		t.Error("completed task has no completed_at")
	}
}

func TestRunPhaseOrder(t *testing.T) {
	db := setupTestDB(t)
	task := createTask(t, db, []string{"tests/"})

	var phases []string
	exec := &fakeExecutor{
		execute: func(ctx context.Context, ec Context, tb *Toolbox) error {
			phases = append(phases, "execute")
			return nil
		},
		validate: func(ctx context.Context, ec Context, tb *Toolbox) error {
			phases = append(phases, "validate")
			return nil
		},
	}
	runUnit(t, db, task, exec, Options{
		OnComplexity: func(string, int, models.EscalationTier) {
			phases = append(phases, "analyze")
		},
	})

	want := "analyze,execute,validate"
	if got := strings.Join(phases, ","); got != want {
		t.Errorf("phase order = %s, want %s", got, want)
	}
}

func TestRunClaimRace(t *testing.T) {
	db := setupTestDB(t)
	task := createTask(t, db, []string{"tests/"})

	// Another claimant got there first.
	if ok, _, err := db.Transition(task.ID, models.TaskStatusTodo, models.TaskStatusInProgress); !ok || err != nil {
		t.Fatalf("setup transition: ok=%v err=%v", ok, err)
	}

	unit := New(db, scope.New(), testDescriptor(), &fakeExecutor{}, Options{})
	err := unit.Run(context.Background(), Context{ProjectID: "P1", TaskID: task.ID, Scope: task.Scope})

	var rejected *state.TransitionRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected *state.TransitionRejectedError, got %v", err)
	}
	if rejected.Current != models.TaskStatusInProgress {
		t.Errorf("conflict current = %s", rejected.Current)
	}
}

func TestRunCancelledBeforeClaim(t *testing.T) {
	db := setupTestDB(t)
	task := createTask(t, db, []string{"tests/"})

	// Cancelled while still todo: the task was refused before any claim.
	if ok, _, err := db.Transition(task.ID, models.TaskStatusTodo, models.TaskStatusRefused); !ok || err != nil {
		t.Fatalf("setup transition: ok=%v err=%v", ok, err)
	}

	unit := New(db, scope.New(), testDescriptor(), &fakeExecutor{}, Options{})
	if err := unit.Run(context.Background(), Context{ProjectID: "P1", TaskID: task.ID, Scope: task.Scope}); err == nil {
		t.Error("expected claim failure for a refused task")
	}

	got, _ := db.GetTask(task.ID)
	if got.Status != models.TaskStatusRefused {
		t.Errorf("status = %s, want %s", got.Status, models.TaskStatusRefused)
	}
}

func TestRunCancelledMidExecution(t *testing.T) {
	db := setupTestDB(t)
	task := createTask(t, db, []string{"tests/"})

	ctx, cancel := context.WithCancel(context.Background())
	exec := &fakeExecutor{
		execute: func(ctx context.Context, ec Context, tb *Toolbox) error {
			tb.Note("rewrote tests/auth_test.go")
			cancel()
			return nil
		},
	}

	unit := New(db, scope.New(), testDescriptor(), exec, Options{})
	if err := unit.Run(ctx, Context{ProjectID: "P1", TaskID: task.ID, Scope: task.Scope}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got, _ := db.GetTask(task.ID)
	if got.Status != models.TaskStatusBlocked {
		t.Errorf("status = %s, want %s", got.Status, models.TaskStatusBlocked)
	}
	if !strings.Contains(got.ResultSummary, "cancelled before validate phase") {
		t.Errorf("summary = %q", got.ResultSummary)
	}
	// Partial work stays described.
	if !strings.Contains(got.ResultSummary, "rewrote tests/auth_test.go") {
		t.Errorf("summary lost the partial-work note: %q", got.ResultSummary)
	}
}

func TestRunValidationFailure(t *testing.T) {
	db := setupTestDB(t)
	task := createTask(t, db, []string{"tests/"})

	exec := &fakeExecutor{
		validate: func(ctx context.Context, ec Context, tb *Toolbox) error {
			return fmt.Errorf("2 tests still red")
		},
	}
	runUnit(t, db, task, exec, Options{})

	got, _ := db.GetTask(task.ID)
	if got.Status != models.TaskStatusBlocked {
		t.Errorf("status = %s, want %s", got.Status, models.TaskStatusBlocked)
	}
	if !strings.Contains(got.ResultSummary, "validation failed") || !strings.Contains(got.ResultSummary, "2 tests still red") {
		t.Errorf("summary = %q", got.ResultSummary)
	}
}

func TestRunAnalyzeFailure(t *testing.T) {
	db := setupTestDB(t)
	task := createTask(t, db, []string{"tests/"})

	exec := &fakeExecutor{analyzeErr: fmt.Errorf("inputs unreadable")}
	runUnit(t, db, task, exec, Options{})

	got, _ := db.GetTask(task.ID)
	if got.Status != models.TaskStatusBlocked {
		t.Errorf("status = %s, want %s", got.Status, models.TaskStatusBlocked)
	}
}

func TestEscalationTierSelection(t *testing.T) {
	db := setupTestDB(t)
	task := createTask(t, db, []string{"tests/"})

	// All factors at 2 sums to 10: consensus tier.
	exec := &fakeExecutor{factors: assess.Factors{
		TechnicalDepth:   2,
		IntegrationScope: 2,
		Uncertainty:      2,
		TimeCriticality:  2,
		FailureImpact:    2,
	}}

	var seen models.EscalationTier
	exec.execute = func(ctx context.Context, ec Context, tb *Toolbox) error {
		seen = tb.Tier()
		return nil
	}
	runUnit(t, db, task, exec, Options{})

	if seen != models.TierConsensus {
		t.Errorf("tier during execute = %s, want %s", seen, models.TierConsensus)
	}
}
