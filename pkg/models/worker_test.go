package models

import "testing"

func TestDefaultEscalationPolicyTiers(t *testing.T) {
	p := DefaultEscalationPolicy()
	tests := []struct {
		score int
		tier  EscalationTier
	}{
		{0, TierNone},
		{3, TierNone},
		{4, TierSingleTool},
		{6, TierSingleTool},
		{7, TierMultiTool},
		{8, TierMultiTool},
		{9, TierConsensus},
		{10, TierConsensus},
	}
	for _, tt := range tests {
		if got := p.TierFor(tt.score); got != tt.tier {
			t.Errorf("TierFor(%d) = %s, want %s", tt.score, got, tt.tier)
		}
	}
}

func TestEscalationPolicyValidate(t *testing.T) {
	if err := DefaultEscalationPolicy().Validate(); err != nil {
		t.Errorf("default policy should validate: %v", err)
	}

	tests := []struct {
		name   string
		policy EscalationPolicy
	}{
		{"empty", EscalationPolicy{}},
		{"unordered", EscalationPolicy{{MaxScore: 6, Tier: TierNone}, {MaxScore: 3, Tier: TierSingleTool}, {MaxScore: 10, Tier: TierConsensus}}},
		{"unknown tier", EscalationPolicy{{MaxScore: 10, Tier: "mega"}}},
		{"incomplete range", EscalationPolicy{{MaxScore: 5, Tier: TierNone}}},
	}
	for _, tt := range tests {
		if err := tt.policy.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestWorkerDescriptorValidate(t *testing.T) {
	good := &WorkerDescriptor{Domain: "test-repair", AcceptedScopes: []string{"tests/"}}
	if err := good.Validate(); err != nil {
		t.Errorf("valid descriptor rejected: %v", err)
	}

	tests := []struct {
		name string
		desc WorkerDescriptor
	}{
		{"no domain", WorkerDescriptor{AcceptedScopes: []string{"tests/"}}},
		{"no scopes", WorkerDescriptor{Domain: "design"}},
		{"empty scope entry", WorkerDescriptor{Domain: "design", AcceptedScopes: []string{""}}},
		{"bad policy", WorkerDescriptor{
			Domain:         "design",
			AcceptedScopes: []string{"docs/"},
			Escalation:     EscalationPolicy{{MaxScore: 4, Tier: "huge"}},
		}},
	}
	for _, tt := range tests {
		if err := tt.desc.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestWorkerDescriptorPolicyFallback(t *testing.T) {
	d := &WorkerDescriptor{Domain: "quality", AcceptedScopes: []string{"."}}
	if got := d.Policy().TierFor(9); got != TierConsensus {
		t.Errorf("fallback policy TierFor(9) = %s, want %s", got, TierConsensus)
	}

	d.Escalation = EscalationPolicy{{MaxScore: 10, Tier: TierNone}}
	if got := d.Policy().TierFor(9); got != TierNone {
		t.Errorf("declared policy TierFor(9) = %s, want %s", got, TierNone)
	}
}
