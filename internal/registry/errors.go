package registry

import (
	"fmt"
	"strings"
)

// UnroutableDomainError reports a dispatch for a domain no registered
// worker serves.
type UnroutableDomainError struct {
	Domain string
	Known  []string
}

func (e *UnroutableDomainError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("no worker registered for domain %q", e.Domain)
	}
	return fmt.Sprintf("no worker registered for domain %q (known: %s)",
		e.Domain, strings.Join(e.Known, ", "))
}
