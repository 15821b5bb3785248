package model

import (
	"errors"
	"fmt"
)

// ScalePreset is a named set of search settings a user can keep and reuse.
type ScalePreset struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	ScalesX     []float64 `json:"scales_x,omitempty" yaml:"scales_x,omitempty"`
	ScalesY     []float64 `json:"scales_y,omitempty" yaml:"scales_y,omitempty"`
	Workers     int       `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// Validate checks that the preset has a name and only positive scales.
func (p ScalePreset) Validate() error {
	if p.Name == "" {
		return errors.New("preset has no name")
	}
	for _, s := range append(append([]float64(nil), p.ScalesX...), p.ScalesY...) {
		if s <= 0 {
			return fmt.Errorf("preset %q: scale %g must be positive", p.Name, s)
		}
	}
	return nil
}

// Apply overlays the preset onto s. Empty scale lists and a zero worker
// count leave the existing values untouched.
func (p ScalePreset) Apply(s *Settings) {
	if len(p.ScalesX) > 0 {
		s.ScalesX = append([]float64(nil), p.ScalesX...)
	}
	if len(p.ScalesY) > 0 {
		s.ScalesY = append([]float64(nil), p.ScalesY...)
	}
	if p.Workers != 0 {
		s.Workers = p.Workers
	}
}

// BuiltInPresets returns the presets available without a presets file.
func BuiltInPresets() []ScalePreset {
	return []ScalePreset{
		{
			Name:        "default",
			Description: "Scales 0.5 to 1.0 in steps of 0.1 on both axes",
			ScalesX:     append([]float64(nil), DefaultScales...),
			ScalesY:     append([]float64(nil), DefaultScales...),
		},
		{
			Name:        "uniform",
			Description: "Full-size crops only",
			ScalesX:     []float64{1},
			ScalesY:     []float64{1},
		},
		{
			Name:        "wide",
			Description: "Narrow columns, tall canvas",
			ScalesX:     []float64{0.5, 0.6, 0.7},
			ScalesY:     []float64{0.8, 0.9, 1.0},
		},
	}
}
