package assess

import "strings"

// depthKeywords are words that indicate technically deep work.
var depthKeywords = []string{
	"migration",
	"schema",
	"database",
	"crypto",
	"concurrency",
	"protocol",
	"parser",
}

// integrationKeywords are words that indicate work spanning systems.
var integrationKeywords = []string{
	"integration",
	"api",
	"cross",
	"pipeline",
	"deploy",
	"infra",
	"infrastructure",
}

// uncertaintyKeywords are words that indicate a poorly understood problem.
var uncertaintyKeywords = []string{
	"investigate",
	"unknown",
	"flaky",
	"intermittent",
	"spike",
	"explore",
}

// urgencyKeywords are words that indicate deadline pressure.
var urgencyKeywords = []string{
	"urgent",
	"hotfix",
	"outage",
	"asap",
	"regression",
}

// impactKeywords are words that indicate a large failure blast radius.
var impactKeywords = []string{
	"auth",
	"authentication",
	"security",
	"payment",
	"billing",
	"data loss",
	"production",
}

// EstimateFactors derives factor inputs from a task description using keyword
// signals. It is a convenience for callers that have only free text; callers
// with real knowledge of the task should score the factors themselves.
func EstimateFactors(description string) Factors {
	lower := strings.ToLower(description)
	return Factors{
		TechnicalDepth:   keywordScore(lower, depthKeywords),
		IntegrationScope: keywordScore(lower, integrationKeywords),
		Uncertainty:      keywordScore(lower, uncertaintyKeywords),
		TimeCriticality:  keywordScore(lower, urgencyKeywords),
		FailureImpact:    keywordScore(lower, impactKeywords),
	}
}

// keywordScore maps keyword hits to a 0-2 factor: 0 for none, 1 for one,
// 2 for two or more.
func keywordScore(lower string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
			if hits >= 2 {
				return 2
			}
		}
	}
	return hits
}
