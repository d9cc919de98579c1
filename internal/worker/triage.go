package worker

import (
	"context"
	"fmt"

	"github.com/steward-sh/steward/internal/assess"
)

// TriageExecutor is the stock executor wired when no domain-specific one is
// plugged in. It scores the task from its description, records the selected
// escalation tier, and completes without mutating any resource. It exists
// so dispatch, escalation and the audit trail are exercised end to end even
// before a domain grows a real executor.
type TriageExecutor struct{}

// NewTriageExecutor returns the stock executor.
func NewTriageExecutor() *TriageExecutor {
	return &TriageExecutor{}
}

func (t *TriageExecutor) Analyze(ctx context.Context, ec Context, tb *Toolbox) (assess.Factors, error) {
	task, err := tb.Task()
	if err != nil {
		return assess.Factors{}, err
	}
	if task == nil {
		return assess.Factors{}, fmt.Errorf("task %s vanished during analyze", ec.TaskID)
	}
	return assess.EstimateFactors(task.Description), nil
}

func (t *TriageExecutor) Execute(ctx context.Context, ec Context, tb *Toolbox) error {
	return tb.Note(fmt.Sprintf("triaged at tier %s", tb.Tier()))
}

func (t *TriageExecutor) Validate(ctx context.Context, ec Context, tb *Toolbox) error {
	return nil
}
