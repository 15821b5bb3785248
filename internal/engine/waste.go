package engine

import "image"

// EmptyWaste is reported for an image without pixels. It is larger than
// any real fraction so an empty atlas never wins a search.
const EmptyWaste = 10.0

// TransparentFraction returns the fraction of pixels in img whose alpha is
// exactly zero.
func TransparentFraction(img *image.NRGBA) float64 {
	if img == nil {
		return EmptyWaste
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return EmptyWaste
	}

	transparent := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] == 0 {
				transparent++
			}
		}
	}
	return float64(transparent) / float64(w*h)
}

// SourceWaste returns the mean transparent fraction of the given images,
// the figure the atlas waste is compared against.
func SourceWaste(images []*image.NRGBA) float64 {
	if len(images) == 0 {
		return 0
	}
	total := 0.0
	for _, img := range images {
		total += TransparentFraction(img)
	}
	return total / float64(len(images))
}
