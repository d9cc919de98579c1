// Package assess provides deterministic complexity scoring for tasks.
// The score drives a worker's internal escalation tier and the coordinator's
// high-risk audit flag. Scoring is pure: same factors, same score, no side
// effects. Judgment lives in the factor inputs, not here.
package assess

// Factors are the descriptive inputs to a complexity assessment. Each factor
// is scored 0-2 by the caller based on task content.
type Factors struct {
	// TechnicalDepth measures how specialized the work is.
	TechnicalDepth int `json:"technical_depth"`
	// IntegrationScope measures how many systems the work touches.
	IntegrationScope int `json:"integration_scope"`
	// Uncertainty measures how well the problem is understood.
	Uncertainty int `json:"uncertainty"`
	// TimeCriticality measures deadline pressure.
	TimeCriticality int `json:"time_criticality"`
	// FailureImpact measures the blast radius of getting it wrong.
	FailureImpact int `json:"failure_impact"`
}

// MaxScore is the ceiling of the complexity scale.
const MaxScore = 10

// HighRiskThreshold is the score at and above which the coordinator flags a
// task as high-risk in the audit trail. It matches the multi-tool escalation
// boundary.
const HighRiskThreshold = 7

// Assess sums the five factors, clamping each to 0-2 and the total to 0-10.
// The result is deterministic and monotonically non-decreasing in every
// individual factor.
func Assess(f Factors) int {
	score := clampFactor(f.TechnicalDepth) +
		clampFactor(f.IntegrationScope) +
		clampFactor(f.Uncertainty) +
		clampFactor(f.TimeCriticality) +
		clampFactor(f.FailureImpact)
	if score > MaxScore {
		score = MaxScore
	}
	return score
}

// HighRisk reports whether a score warrants the coordinator's high-risk
// audit flag.
func HighRisk(score int) bool {
	return score >= HighRiskThreshold
}

func clampFactor(v int) int {
	if v < 0 {
		return 0
	}
	if v > 2 {
		return 2
	}
	return v
}
