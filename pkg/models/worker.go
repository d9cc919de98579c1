package models

import "fmt"

// EscalationRule maps a complexity-score ceiling to an escalation tier.
// Rules are evaluated in order; the first rule whose MaxScore is >= the
// score wins.
type EscalationRule struct {
	// MaxScore is the highest complexity score (inclusive) this rule covers.
	MaxScore int `yaml:"max_score" json:"max_score"`
	// Tier is the escalation tier applied at or below MaxScore.
	Tier EscalationTier `yaml:"tier" json:"tier"`
}

// EscalationPolicy is an ordered threshold table from complexity score to
// escalation tier.
type EscalationPolicy []EscalationRule

// DefaultEscalationPolicy returns the standard threshold table:
// 0-3 none, 4-6 single-tool, 7-8 multi-tool, 9-10 consensus.
func DefaultEscalationPolicy() EscalationPolicy {
	return EscalationPolicy{
		{MaxScore: 3, Tier: TierNone},
		{MaxScore: 6, Tier: TierSingleTool},
		{MaxScore: 8, Tier: TierMultiTool},
		{MaxScore: 10, Tier: TierConsensus},
	}
}

// TierFor returns the escalation tier for the given complexity score.
// Scores above the last rule's ceiling fall into the last rule's tier.
func (p EscalationPolicy) TierFor(score int) EscalationTier {
	for _, rule := range p {
		if score <= rule.MaxScore {
			return rule.Tier
		}
	}
	if len(p) > 0 {
		return p[len(p)-1].Tier
	}
	return TierNone
}

// Validate checks that the policy is non-empty, strictly ordered by
// MaxScore, covers score 10, and names only known tiers.
func (p EscalationPolicy) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("escalation policy is empty")
	}
	prev := -1
	for i, rule := range p {
		if !rule.Tier.Valid() {
			return fmt.Errorf("rule %d: unknown tier %q", i, rule.Tier)
		}
		if rule.MaxScore <= prev {
			return fmt.Errorf("rule %d: max_score %d not increasing", i, rule.MaxScore)
		}
		prev = rule.MaxScore
	}
	if prev < 10 {
		return fmt.Errorf("policy does not cover the full 0-10 score range (tops out at %d)", prev)
	}
	return nil
}

// WorkerDescriptor is a static capability declaration: one worker type per
// domain, its permitted resource scopes, and its escalation policy.
type WorkerDescriptor struct {
	// Domain is the capability tag this worker serves. Exactly one
	// descriptor per domain exists in the registry.
	Domain string `yaml:"domain" json:"domain"`
	// AcceptedScopes are the resource-path prefixes this worker type is
	// permitted to touch, independent of any individual task's scope.
	AcceptedScopes []string `yaml:"accepted_scopes" json:"accepted_scopes"`
	// Escalation is the complexity threshold table for this worker.
	// Empty means the default policy applies.
	Escalation EscalationPolicy `yaml:"escalation,omitempty" json:"escalation,omitempty"`
}

// Policy returns the descriptor's escalation policy, falling back to the
// default table when none is declared.
func (d *WorkerDescriptor) Policy() EscalationPolicy {
	if len(d.Escalation) == 0 {
		return DefaultEscalationPolicy()
	}
	return d.Escalation
}

// Validate checks the descriptor is well-formed: a domain, at least one
// accepted scope, and a valid escalation policy if one is declared.
func (d *WorkerDescriptor) Validate() error {
	if d.Domain == "" {
		return fmt.Errorf("descriptor has no domain")
	}
	if len(d.AcceptedScopes) == 0 {
		return fmt.Errorf("descriptor %q has no accepted scopes", d.Domain)
	}
	for _, s := range d.AcceptedScopes {
		if s == "" {
			return fmt.Errorf("descriptor %q has an empty accepted scope", d.Domain)
		}
	}
	if len(d.Escalation) > 0 {
		if err := d.Escalation.Validate(); err != nil {
			return fmt.Errorf("descriptor %q: %w", d.Domain, err)
		}
	}
	return nil
}
