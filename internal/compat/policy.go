// Package compat decides whether a catalogue model fits a space envelope.
//
// Two policies are provided. MinimumClearance accepts any space at least as
// large as the model needs and ranks fits by utilization. ExactMatch accepts
// only spaces whose height, width and pit depth equal the model's exactly.
// Both are pure functions of (spec, envelope).
package compat

import (
	"strings"

	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

// Policy names accepted by PolicyByName.
const (
	PolicyMinimumClearance = "minimum-clearance"
	PolicyExactMatch       = "exact-match"
)

// Result is the outcome of evaluating one model against one envelope.
type Result struct {
	Compatible bool     `json:"is_compatible"`
	Reasons    []string `json:"reasons"`
	// FitScore is only set by scoring policies, and only when Compatible.
	FitScore float64 `json:"fit_score,omitempty"`
}

// Policy evaluates a model against a space envelope.
type Policy interface {
	// Name returns the policy's identifier (e.g., "minimum-clearance").
	Name() string

	// Evaluate returns the compatibility of spec with space. The envelope is
	// assumed valid; callers validate it first.
	Evaluate(spec pkgcatalog.ProductSpec, space SpaceEnvelope) Result
}

// Ranker is implemented by policies whose FitScore orders results.
type Ranker interface {
	Ranked() bool
}

// IsRanked reports whether results of p should be sorted by FitScore.
func IsRanked(p Policy) bool {
	r, ok := p.(Ranker)
	return ok && r.Ranked()
}

// PolicyByName resolves a policy identifier. Matching ignores case and
// accepts the short forms "clearance" and "exact".
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyMinimumClearance, "clearance":
		return MinimumClearance{}, nil
	case PolicyExactMatch, "exact":
		return ExactMatch{}, nil
	case "":
		return nil, Invalid("policy", "is required (%s or %s)", PolicyMinimumClearance, PolicyExactMatch)
	default:
		return nil, Invalid("policy", "unknown policy %q", name)
	}
}

func newResult(reasons []string) Result {
	if reasons == nil {
		reasons = []string{}
	}
	return Result{Compatible: len(reasons) == 0, Reasons: reasons}
}
