package model

import (
	"fmt"
	"image"
	"math"
)

// RawImage is an already-decoded pixel buffer as handed to the packer.
// Pix holds tightly packed rows of RGB (HasAlpha false) or RGBA samples
// with straight, non-premultiplied alpha.
type RawImage struct {
	Name     string
	Pix      []byte
	Width    int
	Height   int
	HasAlpha bool
}

// Channels returns the number of samples per pixel in Pix.
func (r RawImage) Channels() int {
	if r.HasAlpha {
		return 4
	}
	return 3
}

// SourceImage is one input of the atlas. It is never mutated after
// construction.
type SourceImage struct {
	Index int
	Name  string
	Image *image.NRGBA
}

// NewSourceImage wraps an NRGBA image whose bounds start at the origin.
func NewSourceImage(index int, name string, img *image.NRGBA) *SourceImage {
	return &SourceImage{Index: index, Name: name, Image: img}
}

// SourceFromRaw converts a raw buffer into a SourceImage. Buffers without
// an alpha channel get a fully opaque one.
func SourceFromRaw(index int, raw RawImage) (*SourceImage, error) {
	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, &DegenerateImageError{Index: index, Name: raw.Name, Width: raw.Width, Height: raw.Height}
	}
	channels := raw.Channels()
	// The NRGBA canvas needs w*h*4 bytes; larger sizes overflow int.
	if raw.Width > math.MaxInt/4/raw.Height {
		return nil, fmt.Errorf("image %d (%s): %dx%d is too large: %w",
			index, raw.Name, raw.Width, raw.Height, ErrBufferSize)
	}
	if want := raw.Width * raw.Height * channels; len(raw.Pix) != want {
		return nil, fmt.Errorf("image %d (%s): got %d bytes, want %d: %w",
			index, raw.Name, len(raw.Pix), want, ErrBufferSize)
	}

	img := image.NewNRGBA(image.Rect(0, 0, raw.Width, raw.Height))
	if raw.HasAlpha {
		for y := 0; y < raw.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+raw.Width*4], raw.Pix[y*raw.Width*4:(y+1)*raw.Width*4])
		}
	} else {
		for y := 0; y < raw.Height; y++ {
			row := img.Pix[y*img.Stride:]
			src := raw.Pix[y*raw.Width*3:]
			for x := 0; x < raw.Width; x++ {
				row[x*4] = src[x*3]
				row[x*4+1] = src[x*3+1]
				row[x*4+2] = src[x*3+2]
				row[x*4+3] = 255
			}
		}
	}
	return NewSourceImage(index, raw.Name, img), nil
}

// Width returns the image width in pixels.
func (s *SourceImage) Width() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Rect.Dx()
}

// Height returns the image height in pixels.
func (s *SourceImage) Height() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Rect.Dy()
}

// AlphaAt returns the alpha sample at (x, y), relative to the image origin.
func (s *SourceImage) AlphaAt(x, y int) uint8 {
	return s.Image.Pix[y*s.Image.Stride+x*4+3]
}

// Degenerate reports whether the image has no pixels.
func (s *SourceImage) Degenerate() bool {
	return s.Width() <= 0 || s.Height() <= 0
}
