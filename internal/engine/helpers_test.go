package engine

import (
	"image"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// opaqueSource returns a fully opaque w x h source with a colour gradient.
func opaqueSource(index, w, h int) *model.SourceImage {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*img.Stride + x*4
			img.Pix[off] = uint8(x * 7)
			img.Pix[off+1] = uint8(y * 11)
			img.Pix[off+2] = uint8(index * 13)
			img.Pix[off+3] = 255
		}
	}
	return model.NewSourceImage(index, "", img)
}

// maskSource builds a source from text rows: '#' is opaque, 'o' is
// half transparent and anything else is fully transparent.
func maskSource(index int, rows ...string) *model.SourceImage {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y, row := range rows {
		for x, c := range row {
			off := y*img.Stride + x*4
			img.Pix[off] = uint8(10 + x)
			img.Pix[off+1] = uint8(20 + y)
			img.Pix[off+2] = uint8(index)
			switch c {
			case '#':
				img.Pix[off+3] = 255
			case 'o':
				img.Pix[off+3] = 128
			}
		}
	}
	return model.NewSourceImage(index, "", img)
}

// rawOpaqueRGB returns a w x h three-channel buffer.
func rawOpaqueRGB(w, h int) model.RawImage {
	pix := make([]byte, w*h*3)
	for i := range pix {
		pix[i] = byte(i)
	}
	return model.RawImage{Width: w, Height: h, Pix: pix}
}

// rawFromSource flattens a source into a four-channel raw buffer.
func rawFromSource(src *model.SourceImage) model.RawImage {
	w, h := src.Width(), src.Height()
	pix := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		pix = append(pix, src.Image.Pix[y*src.Image.Stride:y*src.Image.Stride+w*4]...)
	}
	return model.RawImage{Name: src.Name, Width: w, Height: h, Pix: pix, HasAlpha: true}
}

func overlaps(a, b model.Placement) bool {
	return a.Rect().Overlaps(b.Rect())
}
