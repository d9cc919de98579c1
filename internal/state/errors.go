package state

import (
	"fmt"

	"github.com/steward-sh/steward/pkg/models"
)

// TaskNotFoundError reports a lookup or transition against an unknown task id.
type TaskNotFoundError struct {
	TaskID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.TaskID)
}

// TransitionRejectedError reports a compare-and-swap transition that did not
// apply: the stored status differed from the expected one, or the requested
// move breaks the task state machine. Current carries the status actually
// stored so callers can re-read and decide.
type TransitionRejectedError struct {
	TaskID   string
	Expected models.TaskStatus
	Next     models.TaskStatus
	Current  models.TaskStatus
}

func (e *TransitionRejectedError) Error() string {
	return fmt.Sprintf("transition rejected for task %s: expected %s -> %s, current status is %s",
		e.TaskID, e.Expected, e.Next, e.Current)
}
