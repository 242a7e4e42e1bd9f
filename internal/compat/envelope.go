package compat

import "errors"

// SpaceEnvelope is the space a customer has available, in millimeters.
// PitDepth 0 means no pit is available.
type SpaceEnvelope struct {
	Height   int `json:"height"`
	Width    int `json:"width"`
	Length   int `json:"length"`
	PitDepth int `json:"pit_depth"`
}

// Validate checks that height, width and length are positive and pit depth
// is not negative. All failing fields are reported together.
func (s SpaceEnvelope) Validate() error {
	var errs []error
	if s.Height <= 0 {
		errs = append(errs, Invalid("height", "must be a positive number of millimeters, got %d", s.Height))
	}
	if s.Width <= 0 {
		errs = append(errs, Invalid("width", "must be a positive number of millimeters, got %d", s.Width))
	}
	if s.Length <= 0 {
		errs = append(errs, Invalid("length", "must be a positive number of millimeters, got %d", s.Length))
	}
	if s.PitDepth < 0 {
		errs = append(errs, Invalid("pit_depth", "must not be negative, got %d", s.PitDepth))
	}
	return errors.Join(errs...)
}
