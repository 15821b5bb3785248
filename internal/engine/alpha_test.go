package engine

import (
	"errors"
	"image"
	"math/rand/v2"
	"testing"

	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRects_FullyOpaque(t *testing.T) {
	rects, err := ExtractRects(opaqueSource(2, 10, 10))
	require.NoError(t, err)
	require.Len(t, rects, 1)
	assert.Equal(t, model.ExtractedRect{X: 0, Y: 0, Width: 10, Height: 10, Source: 2}, rects[0])
}

func TestExtractRects_OpaqueSquareInsideTransparentImage(t *testing.T) {
	src := maskSource(0,
		"..........",
		"..........",
		"...####...",
		"...####...",
		"...####...",
		"...####...",
		"..........",
		"..........",
		"..........",
		"..........",
	)
	rects, err := ExtractRects(src)
	require.NoError(t, err)
	require.Len(t, rects, 1)
	assert.Equal(t, 3, rects[0].X)
	assert.Equal(t, 2, rects[0].Y)
	assert.Equal(t, 4, rects[0].Width)
	assert.Equal(t, 4, rects[0].Height)
}

func TestExtractRects_FullyTransparentFallsBackToWholeImage(t *testing.T) {
	src := maskSource(1,
		"....",
		"....",
		"....",
	)
	rects, err := ExtractRects(src)
	require.NoError(t, err)
	require.Len(t, rects, 1)
	assert.Equal(t, model.ExtractedRect{X: 0, Y: 0, Width: 4, Height: 3, Source: 1}, rects[0])
}

func TestExtractRects_MultipleComponentsInRasterOrder(t *testing.T) {
	src := maskSource(0,
		"......##",
		"##....##",
		"##......",
		"........",
		"...###..",
	)
	rects, err := ExtractRects(src)
	require.NoError(t, err)
	require.Len(t, rects, 3)

	assert.Equal(t, model.ExtractedRect{X: 6, Y: 0, Width: 2, Height: 2, Part: 0}, rects[0])
	assert.Equal(t, model.ExtractedRect{X: 0, Y: 1, Width: 2, Height: 2, Part: 1}, rects[1])
	assert.Equal(t, model.ExtractedRect{X: 3, Y: 4, Width: 3, Height: 1, Part: 2}, rects[2])
}

func TestExtractRects_DiagonalPixelsAreConnected(t *testing.T) {
	src := maskSource(0,
		".....",
		".#...",
		"..#..",
		"...#.",
		".....",
	)
	rects, err := ExtractRects(src)
	require.NoError(t, err)
	require.Len(t, rects, 1)
	assert.Equal(t, model.ExtractedRect{X: 1, Y: 1, Width: 3, Height: 3}, rects[0])
}

func TestExtractRects_ComponentInsideHoleIsDropped(t *testing.T) {
	src := maskSource(0,
		".......",
		".#####.",
		".#...#.",
		".#.#.#.",
		".#...#.",
		".#####.",
		".......",
	)
	rects, err := ExtractRects(src)
	require.NoError(t, err)
	require.Len(t, rects, 1, "the centre dot lies inside the ring's hole")
	assert.Equal(t, model.ExtractedRect{X: 1, Y: 1, Width: 5, Height: 5}, rects[0])
}

func TestExtractRects_SemiTransparentIsForeground(t *testing.T) {
	src := maskSource(0,
		"....",
		".oo.",
		"....",
	)
	rects, err := ExtractRects(src)
	require.NoError(t, err)
	require.Len(t, rects, 1)
	assert.Equal(t, model.ExtractedRect{X: 1, Y: 1, Width: 2, Height: 1}, rects[0])
}

func TestExtractRects_Degenerate(t *testing.T) {
	src := model.NewSourceImage(4, "flat", image.NewNRGBA(image.Rect(0, 0, 0, 3)))
	_, err := ExtractRects(src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDegenerateImage))

	var de *model.DegenerateImageError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 4, de.Index)
	assert.Equal(t, "flat", de.Name)
}

func TestExtractRects_RectsStayInsideSource(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 50; trial++ {
		w := 1 + rng.IntN(24)
		h := 1 + rng.IntN(24)
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for i := 3; i < len(img.Pix); i += 4 {
			if rng.IntN(3) == 0 {
				img.Pix[i] = uint8(1 + rng.IntN(255))
			}
		}
		src := model.NewSourceImage(trial, "", img)

		rects, err := ExtractRects(src)
		require.NoError(t, err)
		require.NotEmpty(t, rects)
		for _, r := range rects {
			assert.Greater(t, r.Width, 0)
			assert.Greater(t, r.Height, 0)
			assert.GreaterOrEqual(t, r.X, 0)
			assert.GreaterOrEqual(t, r.Y, 0)
			assert.LessOrEqual(t, r.X+r.Width, w)
			assert.LessOrEqual(t, r.Y+r.Height, h)
			assert.Equal(t, trial, r.Source)
		}
	}
}

func TestExtractRects_StableAcrossCalls(t *testing.T) {
	src := maskSource(0,
		"#..#..#",
		".......",
		"##...##",
	)
	first, err := ExtractRects(src)
	require.NoError(t, err)
	second, err := ExtractRects(src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
