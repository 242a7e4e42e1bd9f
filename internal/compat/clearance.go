package compat

import (
	"fmt"
	"math"

	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

// Tight-fit band: utilization inside [bonusLow, bonusHigh] earns bonusPoints.
const (
	bonusLow    = 85.0
	bonusHigh   = 95.0
	bonusPoints = 5.0
	maxScore    = 100.0
)

// MinimumClearance accepts a space when every dimension the model declares
// fits inside it, and scores the fit by how much of the space the model uses.
type MinimumClearance struct{}

var _ Ranker = MinimumClearance{}

func (MinimumClearance) Name() string { return PolicyMinimumClearance }

func (MinimumClearance) Ranked() bool { return true }

// Evaluate checks height, width, length and, for pit systems, pit depth.
func (MinimumClearance) Evaluate(spec pkgcatalog.ProductSpec, space SpaceEnvelope) Result {
	d := spec.Dimensions
	length := spec.LengthClearance()

	var reasons []string
	if r, short := shortfall("Height", d.RequiredHeight, space.Height); short {
		reasons = append(reasons, r)
	}
	if r, short := shortfall("Width", d.RequiredWidth, space.Width); short {
		reasons = append(reasons, r)
	}
	if r, short := shortfall("Length", length, space.Length); short {
		reasons = append(reasons, r)
	}
	if spec.HasPit() {
		if space.PitDepth == 0 {
			reasons = append(reasons, fmt.Sprintf("Pit Depth: pit required but none available (need %dmm)", d.PitDepth))
		} else if r, short := shortfall("Pit Depth", d.PitDepth, space.PitDepth); short {
			reasons = append(reasons, r)
		}
	}

	res := newResult(reasons)
	if res.Compatible {
		res.FitScore = fitScore(spec, space)
	}
	return res
}

// shortfall returns a reason when required exceeds available. Dimensions the
// model does not declare (required == 0) never fall short.
func shortfall(label string, required, available int) (string, bool) {
	if required <= 0 || available >= required {
		return "", false
	}
	return fmt.Sprintf("%s: Need %dmm, have %dmm (short by %dmm)",
		label, required, available, required-available), true
}

// fitScore averages per-dimension utilization over height, width and length,
// blends in pit utilization at weight 1:3 when both sides have a pit, then
// rewards tight-but-safe fits. The result is a ranking heuristic only.
func fitScore(spec pkgcatalog.ProductSpec, space SpaceEnvelope) float64 {
	d := spec.Dimensions
	avg := (utilization(d.RequiredHeight, space.Height) +
		utilization(d.RequiredWidth, space.Width) +
		utilization(spec.LengthClearance(), space.Length)) / 3

	score := avg
	if spec.HasPit() && space.PitDepth > 0 {
		score = (avg*3 + utilization(d.PitDepth, space.PitDepth)) / 4
	}

	if score >= bonusLow && score <= bonusHigh {
		return score + bonusPoints
	}
	return math.Min(score, maxScore)
}

func utilization(required, available int) float64 {
	if available <= 0 {
		return 0
	}
	return float64(required) / float64(available) * 100
}
