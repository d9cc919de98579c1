package models

// EscalationTier represents how much additional analysis a worker brings to
// bear on a task, driven by its complexity score.
type EscalationTier string

const (
	// TierNone means the worker proceeds with no extra analysis.
	TierNone EscalationTier = "none"
	// TierSingleTool means the worker runs one deeper-analysis pass.
	TierSingleTool EscalationTier = "single-tool"
	// TierMultiTool means the worker combines several analysis passes.
	TierMultiTool EscalationTier = "multi-tool"
	// TierConsensus means the worker requires multi-expert consensus
	// before acting.
	TierConsensus EscalationTier = "consensus"
)

// Valid returns true if the tier is a known value.
func (t EscalationTier) Valid() bool {
	switch t {
	case TierNone, TierSingleTool, TierMultiTool, TierConsensus:
		return true
	default:
		return false
	}
}
