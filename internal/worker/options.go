package worker

import (
	"time"

	"github.com/steward-sh/steward/pkg/models"
)

// Options tune a unit's behavior. Zero values pick the defaults.
type Options struct {
	// TransitionRetries bounds CAS retry attempts per transition.
	TransitionRetries int
	// WaitForBlockers makes SpawnBlocker wait for the child task to reach a
	// terminal state instead of firing and continuing.
	WaitForBlockers bool
	// BlockerWaitTimeout bounds that wait. Ignored unless WaitForBlockers.
	BlockerWaitTimeout time.Duration
	// OnComplexity is called once after Analyze with the recorded score and
	// the escalation tier it selected. Must not block.
	OnComplexity func(taskID string, score int, tier models.EscalationTier)
	// OnBlocker is called after each blocker hand-off, before any optional
	// wait on the child. Must not block.
	OnBlocker func(parentID, childID, domain string)
}

const (
	defaultTransitionRetries  = 3
	defaultBlockerWaitTimeout = 5 * time.Minute
)

func (o *Options) applyDefaults() {
	if o.TransitionRetries <= 0 {
		o.TransitionRetries = defaultTransitionRetries
	}
	if o.BlockerWaitTimeout <= 0 {
		o.BlockerWaitTimeout = defaultBlockerWaitTimeout
	}
}
