package engine

import (
	"sort"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// guillotinePacker implements the guillotine bin-packing algorithm.
// It maintains a list of free rectangles and splits each chosen one into a
// right and a bottom remainder. New remainders are appended, so older free
// rectangles are always scanned first.
type guillotinePacker struct {
	freeRects []rect
}

type rect struct {
	x, y, w, h float64
}

func newGuillotinePacker(width, height float64) *guillotinePacker {
	gp := &guillotinePacker{}
	gp.addFree(rect{0, 0, width, height})
	return gp
}

// addFree appends r unless one of its sides is not positive.
func (gp *guillotinePacker) addFree(r rect) {
	if r.w > 0 && r.h > 0 {
		gp.freeRects = append(gp.freeRects, r)
	}
}

// insert tries to place a piece of the given dimensions. Returns success and
// position. The free rectangle with the least vertical slack wins; on a tie
// the first one found is kept.
func (gp *guillotinePacker) insert(w, h float64) (bool, float64, float64) {
	bestIdx := gp.bestFit(w, h)
	if bestIdx < 0 {
		return false, 0, 0
	}

	chosen := gp.freeRects[bestIdx]
	gp.freeRects = append(gp.freeRects[:bestIdx], gp.freeRects[bestIdx+1:]...)

	gp.addFree(rect{x: chosen.x + w, y: chosen.y, w: chosen.w - w, h: h})         // right
	gp.addFree(rect{x: chosen.x, y: chosen.y + h, w: chosen.w, h: chosen.h - h}) // bottom

	return true, chosen.x, chosen.y
}

// bestFit returns the index of the free rectangle insert would use for a
// piece of size w x h without modifying the packer state. Returns -1 if it
// doesn't fit anywhere.
func (gp *guillotinePacker) bestFit(w, h float64) int {
	bestIdx := -1
	bestSlack := 0.0
	for i, r := range gp.freeRects {
		if r.w >= w && r.h >= h {
			slack := r.h - h
			if bestIdx < 0 || slack < bestSlack {
				bestIdx = i
				bestSlack = slack
			}
		}
	}
	return bestIdx
}

// Pack places rects on a canvas bounded by maxWidth x maxHeight.
//
// Rectangles are taken tallest first; equal heights keep their input order.
// A rectangle that fits nowhere is skipped and packing continues with the
// next one, so the result reports how many of the inputs were placed.
func Pack(rects []model.ExtractedRect, maxWidth, maxHeight float64) model.PackResult {
	sorted := make([]model.ExtractedRect, len(rects))
	copy(sorted, rects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height > sorted[j].Height
	})

	result := model.PackResult{Input: len(rects)}
	packer := newGuillotinePacker(maxWidth, maxHeight)

	for _, r := range sorted {
		ok, px, py := packer.insert(float64(r.Width), float64(r.Height))
		if !ok {
			continue
		}
		// Positions are sums of integer sizes, so the conversion is exact.
		result.Placements = append(result.Placements, model.Placement{
			X:       int(px),
			Y:       int(py),
			Width:   r.Width,
			Height:  r.Height,
			OffsetX: r.X,
			OffsetY: r.Y,
			Source:  r.Source,
			Part:    r.Part,
		})
		result.Placed++
	}
	return result
}
