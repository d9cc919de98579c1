package scope

import (
	"fmt"
	"strings"
)

// ViolationError reports a resource access outside a task's allowed scope.
// It is fatal to the specific operation, not to the whole task: callers are
// expected to route the out-of-scope work through the blocker protocol.
type ViolationError struct {
	Path   string
	Scope  []string
	Reason string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("scope violation: %s (scope: %s): %s",
		e.Path, strings.Join(e.Scope, ", "), e.Reason)
}
