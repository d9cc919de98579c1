package assess

import "testing"

func TestAssess(t *testing.T) {
	tests := []struct {
		name    string
		factors Factors
		want    int
	}{
		{"all zero", Factors{}, 0},
		{"all max", Factors{2, 2, 2, 2, 2}, 10},
		{"mixed", Factors{TechnicalDepth: 1, Uncertainty: 2, FailureImpact: 1}, 4},
		{"single factor", Factors{FailureImpact: 2}, 2},
		{"negative clamped", Factors{TechnicalDepth: -3, Uncertainty: 1}, 1},
		{"overscored factor clamped", Factors{TechnicalDepth: 9}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assess(tt.factors); got != tt.want {
				t.Errorf("Assess(%+v) = %d, want %d", tt.factors, got, tt.want)
			}
		})
	}
}

func TestAssessDeterministic(t *testing.T) {
	f := Factors{TechnicalDepth: 2, IntegrationScope: 1, Uncertainty: 1, TimeCriticality: 0, FailureImpact: 2}
	first := Assess(f)
	for i := 0; i < 10; i++ {
		if Assess(f) != first {
			t.Fatal("Assess is not deterministic")
		}
	}
}

// TestAssessMonotonic checks that raising any single factor never lowers the
// score.
func TestAssessMonotonic(t *testing.T) {
	bump := []func(Factors, int) Factors{
		func(f Factors, v int) Factors { f.TechnicalDepth = v; return f },
		func(f Factors, v int) Factors { f.IntegrationScope = v; return f },
		func(f Factors, v int) Factors { f.Uncertainty = v; return f },
		func(f Factors, v int) Factors { f.TimeCriticality = v; return f },
		func(f Factors, v int) Factors { f.FailureImpact = v; return f },
	}

	base := Factors{TechnicalDepth: 1, IntegrationScope: 1, Uncertainty: 1, TimeCriticality: 1, FailureImpact: 1}
	for i, set := range bump {
		prev := -1
		for v := 0; v <= 2; v++ {
			score := Assess(set(base, v))
			if score < prev {
				t.Errorf("factor %d: score decreased from %d to %d when raising factor to %d", i, prev, score, v)
			}
			prev = score
		}
	}
}

func TestHighRisk(t *testing.T) {
	tests := []struct {
		score int
		want  bool
	}{
		{0, false},
		{6, false},
		{7, true},
		{10, true},
	}
	for _, tt := range tests {
		if got := HighRisk(tt.score); got != tt.want {
			t.Errorf("HighRisk(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestEstimateFactors(t *testing.T) {
	f := EstimateFactors("urgent hotfix: auth regression in production payment flow")
	if f.TimeCriticality != 2 {
		t.Errorf("TimeCriticality = %d, want 2", f.TimeCriticality)
	}
	if f.FailureImpact != 2 {
		t.Errorf("FailureImpact = %d, want 2", f.FailureImpact)
	}

	quiet := EstimateFactors("fix a typo in the readme")
	if got := Assess(quiet); got != 0 {
		t.Errorf("score for trivial description = %d, want 0", got)
	}
}

func TestEstimateFactorsDeterministic(t *testing.T) {
	desc := "investigate flaky database migration in the deploy pipeline"
	first := EstimateFactors(desc)
	for i := 0; i < 5; i++ {
		if EstimateFactors(desc) != first {
			t.Fatal("EstimateFactors is not deterministic")
		}
	}
}
