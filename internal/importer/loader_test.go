package importer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/AtlasPack/internal/model"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	img.SetNRGBA(w-1, h-1, color.NRGBA{R: 1, G: 2, B: 3, A: 77})
	require.NoError(t, imaging.Save(img, path))
}

func TestLoadImage_PNGKeepsAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero.png")
	writeTestPNG(t, path, 4, 3)

	src, err := LoadImage(path, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, src.Index)
	assert.Equal(t, "hero", src.Name)
	assert.Equal(t, 4, src.Width())
	assert.Equal(t, 3, src.Height())
	assert.Equal(t, uint8(255), src.AlphaAt(0, 0))
	assert.Equal(t, uint8(0), src.AlphaAt(1, 0))
	assert.Equal(t, uint8(77), src.AlphaAt(3, 2))
}

func TestLoadImage_JPEGIsOpaque(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	writeTestPNG(t, path, 5, 5)

	src, err := LoadImage(path, 0)
	require.NoError(t, err)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, uint8(255), src.AlphaAt(x, y))
		}
	}
}

func TestLoadImage_Unreadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := LoadImage(path, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnreadableImage))

	_, err = LoadImage(filepath.Join(dir, "missing.png"), 0)
	assert.True(t, errors.Is(err, model.ErrUnreadableImage))
}

func TestLoadImages_OrderAndProgress(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writeTestPNG(t, a, 2, 2)
	writeTestPNG(t, b, 3, 1)

	var reports []int
	sources, err := LoadImages([]ImageEntry{
		{Path: b, Name: "second"},
		{Path: a},
		{Path: b},
	}, func(done, total int) {
		assert.Equal(t, 3, total)
		reports = append(reports, done)
	})
	require.NoError(t, err)
	require.Len(t, sources, 3)

	assert.Equal(t, "second", sources[0].Name)
	assert.Equal(t, "a", sources[1].Name)
	assert.Equal(t, 2, sources[2].Index)
	assert.Same(t, sources[0].Image, sources[2].Image, "repeated paths are decoded once")
	assert.Equal(t, []int{1, 2, 3}, reports)
}

func TestLoadImages_StopsOnFirstError(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	writeTestPNG(t, a, 2, 2)

	_, err := LoadImages([]ImageEntry{{Path: a}, {Path: filepath.Join(dir, "nope.png")}}, nil)
	assert.True(t, errors.Is(err, model.ErrUnreadableImage))
}

func TestImageCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.png")
	writeTestPNG(t, path, 2, 2)

	cache := NewImageCache()
	first, err := cache.Load(path)
	require.NoError(t, err)
	second, err := cache.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	sprites := filepath.Join(dir, "sprites")
	require.NoError(t, os.MkdirAll(filepath.Join(sprites, "nested"), 0755))
	writeTestPNG(t, filepath.Join(sprites, "b.png"), 1, 1)
	writeTestPNG(t, filepath.Join(sprites, "a.PNG"), 1, 1)
	require.NoError(t, os.WriteFile(filepath.Join(sprites, "readme.md"), []byte("x"), 0644))
	single := filepath.Join(dir, "single.gif")
	writeTestPNG(t, single, 1, 1)

	entries, err := ExpandInputs([]string{single, sprites})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, single, entries[0].Path)
	assert.Equal(t, filepath.Join(sprites, "a.PNG"), entries[1].Path)
	assert.Equal(t, "a", entries[1].Name)
	assert.Equal(t, filepath.Join(sprites, "b.png"), entries[2].Path)

	_, err = ExpandInputs([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestIsImageFileAndEntryName(t *testing.T) {
	assert.True(t, IsImageFile("x/y.WEBP"))
	assert.True(t, IsImageFile("a.tiff"))
	assert.False(t, IsImageFile("a.psd"))
	assert.Equal(t, "walk_01", EntryName("/tmp/anim/walk_01.png"))
	assert.Equal(t, "noext", EntryName("noext"))
}

// exifRotated builds a JPEG of w x h pixels whose EXIF orientation tag asks
// viewers to rotate it 90 degrees.
func exifRotated(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	data := buf.Bytes()

	app1 := []byte{
		0xFF, 0xE1, 0x00, 0x22, // APP1, length 34
		'E', 'x', 'i', 'f', 0, 0,
		'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08, // big-endian TIFF header
		0x00, 0x01, // one IFD entry
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x06, 0x00, 0x00, // orientation = 6
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
	out := append([]byte{}, data[:2]...)
	out = append(out, app1...)
	return append(out, data[2:]...)
}

func TestLoadImage_IgnoresEXIFOrientation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotated.jpg")
	require.NoError(t, os.WriteFile(path, exifRotated(t, 6, 2), 0644))

	src, err := LoadImage(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, src.Width())
	assert.Equal(t, 2, src.Height())
}
