package model

import "image"

// ExtractedRect is a region of opaque content inside one source image.
type ExtractedRect struct {
	X      int `json:"x"`      // Offset from the source's left edge (px)
	Y      int `json:"y"`      // Offset from the source's top edge (px)
	Width  int `json:"width"`  // px
	Height int `json:"height"` // px
	Source int `json:"source"` // Index of the source image
	Part   int `json:"part"`   // Component ordinal within the source
}

// Area returns the rectangle area in pixels.
func (r ExtractedRect) Area() int {
	return r.Width * r.Height
}

// Rect returns the crop as an image.Rectangle in source coordinates.
func (r ExtractedRect) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Placement is an extracted rect positioned on the atlas canvas.
type Placement struct {
	X       int `json:"x"`        // Position on the atlas (px)
	Y       int `json:"y"`        // Position on the atlas (px)
	Width   int `json:"width"`    // px
	Height  int `json:"height"`   // px
	OffsetX int `json:"offset_x"` // Crop origin inside the source (px)
	OffsetY int `json:"offset_y"` // Crop origin inside the source (px)
	Source  int `json:"source"`   // Index of the source image
	Part    int `json:"part"`     // Component ordinal within the source
}

// Rect returns the placement as an image.Rectangle in atlas coordinates.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Crop returns the copied region as an image.Rectangle in source coordinates.
func (p Placement) Crop() image.Rectangle {
	return image.Rect(p.OffsetX, p.OffsetY, p.OffsetX+p.Width, p.OffsetY+p.Height)
}

// PackResult is the outcome of one packing attempt.
type PackResult struct {
	Placements []Placement `json:"placements"`
	Placed     int         `json:"placed"`
	Input      int         `json:"input"`
}

// Complete reports whether every input rectangle was placed.
func (pr PackResult) Complete() bool {
	return pr.Placed == pr.Input
}

// Bounds returns the width and height of the tight bounding box of all
// placements. An empty result has a 0x0 bounding box.
func (pr PackResult) Bounds() (width, height int) {
	for _, p := range pr.Placements {
		if r := p.X + p.Width; r > width {
			width = r
		}
		if b := p.Y + p.Height; b > height {
			height = b
		}
	}
	return width, height
}

// UsedArea returns the total area covered by placements.
func (pr PackResult) UsedArea() int {
	total := 0
	for _, p := range pr.Placements {
		total += p.Width * p.Height
	}
	return total
}

// CandidateResult records the evaluation of one scale candidate.
type CandidateResult struct {
	ScaleX    float64 `json:"scale_x"`
	ScaleY    float64 `json:"scale_y"`
	MaxWidth  float64 `json:"max_width"`  // Nominal canvas bound used while packing
	MaxHeight float64 `json:"max_height"` // Nominal canvas bound used while packing
	Placed    int     `json:"placed"`
	Input     int     `json:"input"`
	Complete  bool    `json:"complete"`
	Width     int     `json:"width"`  // Assembled atlas width (complete candidates only)
	Height    int     `json:"height"` // Assembled atlas height (complete candidates only)
	Waste     float64 `json:"waste"`  // Transparent fraction (complete candidates only)
	Err       string  `json:"error,omitempty"`
}

// AtlasResult is the final output of a packing run.
type AtlasResult struct {
	Image       *image.NRGBA      `json:"-"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Waste       float64           `json:"waste"`
	SourceWaste float64           `json:"source_waste"` // Mean transparent fraction of the inputs
	ScaleX      float64           `json:"scale_x"`
	ScaleY      float64           `json:"scale_y"`
	Placements  []Placement       `json:"placements"`
	Candidates  []CandidateResult `json:"candidates"`
}

// Settings holds the scale search configuration.
type Settings struct {
	ScalesX []float64 `json:"scales_x"` // Multipliers applied to the widest source
	ScalesY []float64 `json:"scales_y"` // Multipliers applied to the summed source heights
	Workers int       `json:"workers"`  // Parallel candidate evaluations; <= 0 means one per CPU
}

// DefaultScales is the sample set used for both axes unless configured.
var DefaultScales = []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

func DefaultSettings() Settings {
	return Settings{
		ScalesX: append([]float64(nil), DefaultScales...),
		ScalesY: append([]float64(nil), DefaultScales...),
		Workers: 0,
	}
}
