package worker

import "fmt"

// ValidationFailedError reports that a unit's own output failed its
// Validate phase. The task moves to blocked, never to completed.
type ValidationFailedError struct {
	TaskID string
	Reason string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed for task %s: %s", e.TaskID, e.Reason)
}
