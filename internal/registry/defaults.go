package registry

import "github.com/steward-sh/steward/pkg/models"

// defaultDescriptors is the starter capability table written by
// `steward init` and used when no registry file is configured.
func defaultDescriptors() []models.WorkerDescriptor {
	return []models.WorkerDescriptor{
		{
			Domain:         "test-repair",
			AcceptedScopes: []string{"tests/", "test/"},
		},
		{
			Domain:         "implementation",
			AcceptedScopes: []string{"lib/", "internal/", "pkg/", "cmd/", "src/"},
		},
		{
			Domain:         "design",
			AcceptedScopes: []string{"docs/", "design/"},
		},
		{
			Domain:         "quality",
			AcceptedScopes: []string{"."},
			Escalation: models.EscalationPolicy{
				{MaxScore: 2, Tier: models.TierNone},
				{MaxScore: 5, Tier: models.TierSingleTool},
				{MaxScore: 7, Tier: models.TierMultiTool},
				{MaxScore: 10, Tier: models.TierConsensus},
			},
		},
	}
}

// DefaultYAML is the starter registry file content written by `steward init`.
const DefaultYAML = `# Capability registry: one worker per domain.
#
# Each worker declares the domain it serves, the resource-path prefixes it
# may touch, and optionally its own escalation threshold table. Changes to
# this file take effect on the next process start.
workers:
  - domain: test-repair
    accepted_scopes:
      - tests/
      - test/
  - domain: implementation
    accepted_scopes:
      - lib/
      - internal/
      - pkg/
      - cmd/
      - src/
  - domain: design
    accepted_scopes:
      - docs/
      - design/
  - domain: quality
    accepted_scopes:
      - .
    escalation:
      - max_score: 2
        tier: none
      - max_score: 5
        tier: single-tool
      - max_score: 7
        tier: multi-tool
      - max_score: 10
        tier: consensus
`
