package coordinator

import (
	"fmt"
	"strings"
)

// ScopeConflictError reports a dispatch whose requested scope shares
// nothing with the routed worker's accepted scopes.
type ScopeConflictError struct {
	Domain    string
	Requested []string
	Accepted  []string
}

func (e *ScopeConflictError) Error() string {
	return fmt.Sprintf("requested scope [%s] has no overlap with domain %q accepted scopes [%s]",
		strings.Join(e.Requested, ", "), e.Domain, strings.Join(e.Accepted, ", "))
}
