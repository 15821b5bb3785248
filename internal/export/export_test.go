package export

import (
	"image"
	"image/color"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// buildTestResult creates a small packed atlas with two sources, the first
// of which produced two crops.
func buildTestResult() (model.AtlasResult, []*model.SourceImage) {
	atlas := image.NewNRGBA(image.Rect(0, 0, 12, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 12; x++ {
			if x < 8 {
				atlas.SetNRGBA(x, y, color.NRGBA{R: uint8(20 * x), G: uint8(20 * y), B: 90, A: 255})
			}
		}
	}

	sources := []*model.SourceImage{
		model.NewSourceImage(0, "hero", image.NewNRGBA(image.Rect(0, 0, 16, 16))),
		model.NewSourceImage(1, "coin", image.NewNRGBA(image.Rect(0, 0, 4, 4))),
	}

	result := model.AtlasResult{
		Image:       atlas,
		Width:       12,
		Height:      10,
		Waste:       40.0 / 120.0,
		SourceWaste: 0.6,
		ScaleX:      0.8,
		ScaleY:      0.7,
		Placements: []model.Placement{
			{X: 0, Y: 0, Width: 4, Height: 10, OffsetX: 1, OffsetY: 2, Source: 0, Part: 0},
			{X: 4, Y: 0, Width: 4, Height: 6, OffsetX: 9, OffsetY: 9, Source: 0, Part: 1},
			{X: 4, Y: 6, Width: 4, Height: 4, Source: 1},
		},
		Candidates: []model.CandidateResult{
			{ScaleX: 0.5, ScaleY: 0.5, MaxWidth: 8, MaxHeight: 10, Placed: 2, Input: 3},
			{ScaleX: 0.8, ScaleY: 0.7, MaxWidth: 12.8, MaxHeight: 14, Placed: 3, Input: 3,
				Complete: true, Width: 12, Height: 10, Waste: 40.0 / 120.0},
			{ScaleX: 0.9, ScaleY: 0.5, Err: "degenerate image 1: 0x4"},
		},
	}
	return result, sources
}

func buildTestManifest() Manifest {
	result, sources := buildTestResult()
	return BuildManifest(result, sources, "atlas.png")
}
