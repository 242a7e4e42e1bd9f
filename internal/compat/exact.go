package compat

import (
	"fmt"

	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

// ExactMatch accepts a space only when height and width equal the model's
// requirements exactly, and pit depth too for pit systems. Length is never
// checked: the entered length has already passed a range check upstream.
type ExactMatch struct{}

func (ExactMatch) Name() string { return PolicyExactMatch }

// Evaluate never sets FitScore; the result is binary.
func (ExactMatch) Evaluate(spec pkgcatalog.ProductSpec, space SpaceEnvelope) Result {
	d := spec.Dimensions

	var reasons []string
	if d.RequiredHeight != space.Height {
		reasons = append(reasons, mismatch("Height", d.RequiredHeight, space.Height))
	}
	if d.RequiredWidth != space.Width {
		reasons = append(reasons, mismatch("Width", d.RequiredWidth, space.Width))
	}
	if spec.HasPit() && d.PitDepth != space.PitDepth {
		reasons = append(reasons, mismatch("Pit Depth", d.PitDepth, space.PitDepth))
	}
	return newResult(reasons)
}

func mismatch(label string, required, entered int) string {
	return fmt.Sprintf("%s mismatch: System needs %dmm, you entered %dmm", label, required, entered)
}
