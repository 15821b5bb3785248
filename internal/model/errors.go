package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when no source images are supplied.
	ErrEmptyInput = errors.New("no source images")

	// ErrDegenerateImage is returned for a source with zero width or height.
	ErrDegenerateImage = errors.New("degenerate image")

	// ErrUnreadableImage marks decoding failures raised by the importer.
	ErrUnreadableImage = errors.New("unreadable image")

	// ErrNoValidPacking is returned when every scale candidate left at
	// least one rectangle unplaced.
	ErrNoValidPacking = errors.New("no valid packing")

	// ErrBufferSize is returned when a raw pixel buffer does not hold
	// width*height*channels bytes.
	ErrBufferSize = errors.New("pixel buffer size mismatch")
)

// DegenerateImageError identifies the offending source image.
type DegenerateImageError struct {
	Index  int
	Name   string
	Width  int
	Height int
}

func (e *DegenerateImageError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("degenerate image %d (%s): %dx%d", e.Index, e.Name, e.Width, e.Height)
	}
	return fmt.Sprintf("degenerate image %d: %dx%d", e.Index, e.Width, e.Height)
}

func (e *DegenerateImageError) Unwrap() error {
	return ErrDegenerateImage
}
