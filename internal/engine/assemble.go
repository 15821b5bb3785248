package engine

import (
	"fmt"
	"image"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// Assemble builds the atlas for a packing result. The canvas is the tight
// bounding box of the placements and starts fully transparent; each crop
// is copied byte for byte without blending. An empty result yields a 0x0
// image.
func Assemble(pack model.PackResult, sources []*model.SourceImage) (*image.NRGBA, error) {
	width, height := pack.Bounds()
	atlas := image.NewNRGBA(image.Rect(0, 0, width, height))

	for _, p := range pack.Placements {
		if p.Source < 0 || p.Source >= len(sources) || sources[p.Source] == nil {
			return nil, fmt.Errorf("placement references unknown source %d", p.Source)
		}
		src := sources[p.Source].Image
		if !p.Crop().In(src.Rect.Sub(src.Rect.Min)) {
			return nil, fmt.Errorf("crop %v exceeds source %d bounds %v", p.Crop(), p.Source, src.Rect)
		}

		rowBytes := p.Width * 4
		for dy := 0; dy < p.Height; dy++ {
			srcOff := (p.OffsetY+dy)*src.Stride + p.OffsetX*4
			dstOff := (p.Y+dy)*atlas.Stride + p.X*4
			copy(atlas.Pix[dstOff:dstOff+rowBytes], src.Pix[srcOff:srcOff+rowBytes])
		}
	}
	return atlas, nil
}
