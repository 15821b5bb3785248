package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFromRawRGBA(t *testing.T) {
	raw := RawImage{
		Name:     "rgba",
		Width:    2,
		Height:   1,
		HasAlpha: true,
		Pix:      []byte{1, 2, 3, 4, 5, 6, 7, 0},
	}
	src, err := SourceFromRaw(3, raw)
	require.NoError(t, err)

	assert.Equal(t, 3, src.Index)
	assert.Equal(t, "rgba", src.Name)
	assert.Equal(t, 2, src.Width())
	assert.Equal(t, 1, src.Height())
	assert.Equal(t, uint8(4), src.AlphaAt(0, 0))
	assert.Equal(t, uint8(0), src.AlphaAt(1, 0))
	assert.Equal(t, raw.Pix, src.Image.Pix)
}

func TestSourceFromRawRGBSynthesisesOpaqueAlpha(t *testing.T) {
	raw := RawImage{Width: 2, Height: 2, Pix: make([]byte, 2*2*3)}
	for i := range raw.Pix {
		raw.Pix[i] = byte(i + 1)
	}
	src, err := SourceFromRaw(0, raw)
	require.NoError(t, err)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, uint8(255), src.AlphaAt(x, y))
		}
	}
	// Second pixel of the second row keeps its colour samples.
	off := 1*src.Image.Stride + 1*4
	assert.Equal(t, []byte{10, 11, 12, 255}, src.Image.Pix[off:off+4])
}

func TestSourceFromRawDegenerate(t *testing.T) {
	_, err := SourceFromRaw(2, RawImage{Name: "empty", Width: 0, Height: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateImage))

	var degenerate *DegenerateImageError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, 2, degenerate.Index)
	assert.Equal(t, "empty", degenerate.Name)
	assert.Contains(t, err.Error(), "0x5")
}

func TestSourceFromRawBufferSize(t *testing.T) {
	_, err := SourceFromRaw(0, RawImage{Width: 2, Height: 2, HasAlpha: true, Pix: make([]byte, 15)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBufferSize))
}

func TestPackResultBoundsAndComplete(t *testing.T) {
	pr := PackResult{
		Placements: []Placement{
			{X: 0, Y: 0, Width: 10, Height: 20},
			{X: 10, Y: 0, Width: 5, Height: 5},
			{X: 0, Y: 20, Width: 3, Height: 4},
		},
		Placed: 3,
		Input:  4,
	}
	w, h := pr.Bounds()
	assert.Equal(t, 15, w)
	assert.Equal(t, 24, h)
	assert.False(t, pr.Complete())
	assert.Equal(t, 200+25+12, pr.UsedArea())

	pr.Input = 3
	assert.True(t, pr.Complete())

	w, h = PackResult{}.Bounds()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestPlacementRects(t *testing.T) {
	p := Placement{X: 4, Y: 5, Width: 3, Height: 2, OffsetX: 1, OffsetY: 7}
	assert.Equal(t, 4, p.Rect().Min.X)
	assert.Equal(t, 7, p.Rect().Max.Y)
	assert.Equal(t, 1, p.Crop().Min.X)
	assert.Equal(t, 9, p.Crop().Max.Y)

	r := ExtractedRect{X: 1, Y: 2, Width: 3, Height: 4}
	assert.Equal(t, 12, r.Area())
	assert.Equal(t, 4, r.Rect().Max.X)
}

func TestDefaultSettingsDoNotAliasDefaultScales(t *testing.T) {
	s := DefaultSettings()
	require.Len(t, s.ScalesX, len(DefaultScales))
	s.ScalesX[0] = 42
	assert.Equal(t, 0.5, DefaultScales[0])
	assert.Equal(t, 1.0, s.ScalesY[len(s.ScalesY)-1])
}

func TestScalePresetValidate(t *testing.T) {
	assert.NoError(t, ScalePreset{Name: "ok", ScalesX: []float64{0.5}}.Validate())
	assert.Error(t, ScalePreset{ScalesX: []float64{0.5}}.Validate())
	assert.Error(t, ScalePreset{Name: "zero", ScalesY: []float64{0}}.Validate())

	for _, p := range BuiltInPresets() {
		assert.NoError(t, p.Validate(), p.Name)
	}
}

func TestScalePresetApply(t *testing.T) {
	s := DefaultSettings()
	ScalePreset{Name: "x", ScalesX: []float64{0.3}}.Apply(&s)
	assert.Equal(t, []float64{0.3}, s.ScalesX)
	assert.Equal(t, DefaultScales, s.ScalesY)
	assert.Equal(t, 0, s.Workers)

	preset := ScalePreset{Name: "w", ScalesY: []float64{0.4}, Workers: 2}
	preset.Apply(&s)
	assert.Equal(t, []float64{0.4}, s.ScalesY)
	assert.Equal(t, 2, s.Workers)

	s.ScalesY[0] = 9
	require.Len(t, preset.ScalesY, 1)
	assert.Equal(t, 0.4, preset.ScalesY[0])
}
