package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// ScaleCandidate is one (scaleX, scaleY) pair of the search grid.
type ScaleCandidate struct {
	Index  int
	ScaleX float64
	ScaleY float64
}

// BuildScaleGrid returns the cross product of scalesX and scalesY, x-major,
// in the order the values were given.
func BuildScaleGrid(scalesX, scalesY []float64) []ScaleCandidate {
	grid := make([]ScaleCandidate, 0, len(scalesX)*len(scalesY))
	for _, sx := range scalesX {
		for _, sy := range scalesY {
			grid = append(grid, ScaleCandidate{Index: len(grid), ScaleX: sx, ScaleY: sy})
		}
	}
	return grid
}

// CanvasBounds returns the nominal packing bound for a scale pair: the
// widest source scaled by sx and the summed source heights scaled by sy.
func CanvasBounds(sources []*model.SourceImage, sx, sy float64) (maxWidth, maxHeight float64) {
	for _, src := range sources {
		if w := float64(src.Width()) * sx; w > maxWidth {
			maxWidth = w
		}
		maxHeight += float64(src.Height()) * sy
	}
	return maxWidth, maxHeight
}

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the search outcome for a single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Valid        bool
	ScaleX       float64
	ScaleY       float64
	Width        int
	Height       int
	WastePercent float64
	Candidates   int
	ValidCount   int
}

// CompareScenarios runs the scale search for each scenario and returns the
// results in scenario order. A scenario without a valid packing is reported
// as invalid rather than failing the comparison.
func CompareScenarios(scenarios []ComparisonScenario, sources []*model.SourceImage) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings)
		res, err := opt.Search(sources)
		if err != nil && !errors.Is(err, model.ErrNoValidPacking) {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		valid := 0
		for _, c := range res.Candidates {
			if c.Complete {
				valid++
			}
		}

		cr := ComparisonResult{
			Scenario:   scenario,
			Valid:      err == nil,
			Candidates: len(res.Candidates),
			ValidCount: valid,
		}
		if err == nil {
			cr.ScaleX = res.Best.ScaleX
			cr.ScaleY = res.Best.ScaleY
			cr.Width = res.Best.Width
			cr.Height = res.Best.Height
			cr.WastePercent = res.Best.Waste * 100
		}
		results = append(results, cr)
	}

	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying the scale grid to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: finer grid over the same range
	fine := baseSettings
	fine.ScalesX = refineScales(baseSettings.ScalesX)
	fine.ScalesY = refineScales(baseSettings.ScalesY)
	if len(fine.ScalesX) > len(baseSettings.ScalesX) || len(fine.ScalesY) > len(baseSettings.ScalesY) {
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Fine Grid",
			Settings: fine,
		})
	}

	// Scenario: unscaled canvas only
	unscaled := baseSettings
	unscaled.ScalesX = []float64{1}
	unscaled.ScalesY = []float64{1}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     "Full Canvas",
		Settings: unscaled,
	})

	return scenarios
}

// refineScales inserts the midpoint between every pair of neighbouring
// scales.
func refineScales(scales []float64) []float64 {
	if len(scales) < 2 {
		return append([]float64(nil), scales...)
	}
	fine := make([]float64, 0, 2*len(scales)-1)
	for i, s := range scales {
		if i > 0 {
			fine = append(fine, (scales[i-1]+s)/2)
		}
		fine = append(fine, s)
	}
	return fine
}
