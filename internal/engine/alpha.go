package engine

import (
	"github.com/piwi3910/AtlasPack/internal/model"
)

// point is a pixel coordinate used by the flood fills.
type point struct {
	x, y int
}

// Pixel labels used while scanning a mask.
const (
	labelNone    = 0 // unvisited
	labelOutside = 1 // transparent, reachable from the image border
	labelVisited = 2 // opaque, already assigned to a component
)

// component is one 8-connected region of non-transparent pixels.
type component struct {
	minX, minY, maxX, maxY int
	external               bool
}

// ExtractRects returns the bounding rectangles of the opaque content of src.
//
// A fully opaque image yields a single rectangle covering the whole image.
// Otherwise every pixel with non-zero alpha is foreground and foreground
// pixels are grouped into 8-connected components. Components are reported
// in raster order of their first pixel. A component that lies entirely
// inside a hole of another component is not reported, since its pixels
// are already covered by the enclosing component's rectangle. An image
// without any foreground falls back to the whole-image rectangle.
func ExtractRects(src *model.SourceImage) ([]model.ExtractedRect, error) {
	if src == nil || src.Degenerate() {
		return nil, degenerateError(src)
	}

	w, h := src.Width(), src.Height()
	whole := []model.ExtractedRect{{X: 0, Y: 0, Width: w, Height: h, Source: src.Index}}
	if fullyOpaque(src) {
		return whole, nil
	}

	labels := make([]uint8, w*h)
	markOutside(src, labels)

	var rects []model.ExtractedRect
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if labels[y*w+x] != labelNone || src.AlphaAt(x, y) == 0 {
				continue
			}
			c := traceComponent(src, labels, x, y)
			if !c.external {
				continue
			}
			rects = append(rects, model.ExtractedRect{
				X:      c.minX,
				Y:      c.minY,
				Width:  c.maxX - c.minX + 1,
				Height: c.maxY - c.minY + 1,
				Source: src.Index,
				Part:   len(rects),
			})
		}
	}

	if len(rects) == 0 {
		return whole, nil
	}
	return rects, nil
}

// fullyOpaque reports whether every alpha sample of src equals 255.
func fullyOpaque(src *model.SourceImage) bool {
	img := src.Image
	w, h := src.Width(), src.Height()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 255 {
				return false
			}
		}
	}
	return true
}

// markOutside labels every transparent pixel that is 4-connected to the
// image border. 4-connected background is the dual of 8-connected
// foreground, so the remaining transparent pixels are exactly the holes.
func markOutside(src *model.SourceImage, labels []uint8) {
	w, h := src.Width(), src.Height()
	var stack []point
	push := func(x, y int) {
		if labels[y*w+x] == labelNone && src.AlphaAt(x, y) == 0 {
			labels[y*w+x] = labelOutside
			stack = append(stack, point{x, y})
		}
	}

	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.x > 0 {
			push(p.x-1, p.y)
		}
		if p.x < w-1 {
			push(p.x+1, p.y)
		}
		if p.y > 0 {
			push(p.x, p.y-1)
		}
		if p.y < h-1 {
			push(p.x, p.y+1)
		}
	}
}

// traceComponent flood-fills the 8-connected foreground component that
// contains (startX, startY), marking its pixels visited. The component is
// external when it touches the border or a 4-neighbour of one of its
// pixels is outside background.
func traceComponent(src *model.SourceImage, labels []uint8, startX, startY int) component {
	w, h := src.Width(), src.Height()
	c := component{minX: startX, minY: startY, maxX: startX, maxY: startY}

	labels[startY*w+startX] = labelVisited
	stack := []point{{startX, startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c.minX = min(c.minX, p.x)
		c.minY = min(c.minY, p.y)
		c.maxX = max(c.maxX, p.x)
		c.maxY = max(c.maxY, p.y)

		if p.x == 0 || p.y == 0 || p.x == w-1 || p.y == h-1 {
			c.external = true
		}

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.x+dx, p.y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				idx := ny*w + nx
				switch {
				case labels[idx] == labelOutside:
					if dx == 0 || dy == 0 {
						c.external = true
					}
				case labels[idx] == labelNone && src.AlphaAt(nx, ny) != 0:
					labels[idx] = labelVisited
					stack = append(stack, point{nx, ny})
				}
			}
		}
	}
	return c
}

func degenerateError(src *model.SourceImage) error {
	if src == nil {
		return &model.DegenerateImageError{Index: -1}
	}
	return &model.DegenerateImageError{
		Index:  src.Index,
		Name:   src.Name,
		Width:  src.Width(),
		Height: src.Height(),
	}
}
