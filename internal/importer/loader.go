package importer

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/piwi3910/AtlasPack/internal/model"
)

// imageExtensions lists the file extensions LoadImage can decode.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile reports whether path has a decodable image extension.
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// EntryName derives a frame name from a file path: the base name without
// its extension.
func EntryName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ImageCache provides thread-safe caching of decoded images keyed by path,
// so an image listed more than once is decoded only once.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
}

func NewImageCache() *ImageCache {
	return &ImageCache{images: make(map[string]*image.NRGBA)}
}

// Load returns the decoded image at path, reading it from disk on the first
// call. Decoding failures wrap model.ErrUnreadableImage.
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := decode(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// decode opens path and converts it to non-premultiplied RGBA at the origin.
// Images without an alpha channel come out fully opaque. EXIF orientation
// is ignored; pixels are used as stored.
func decode(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, model.ErrUnreadableImage)
	}
	return imaging.Clone(img), nil
}

// LoadImage decodes the image at path into a source with the given index.
func LoadImage(path string, index int) (*model.SourceImage, error) {
	img, err := decode(path)
	if err != nil {
		return nil, err
	}
	return model.NewSourceImage(index, EntryName(path), img), nil
}

// LoadImages decodes entries in order; the index of each source is its
// position. progress, when set, is called after every image.
func LoadImages(entries []ImageEntry, progress func(done, total int)) ([]*model.SourceImage, error) {
	cache := NewImageCache()
	sources := make([]*model.SourceImage, 0, len(entries))
	for i, e := range entries {
		img, err := cache.Load(e.Path)
		if err != nil {
			return nil, err
		}
		name := e.Name
		if name == "" {
			name = EntryName(e.Path)
		}
		sources = append(sources, model.NewSourceImage(i, name, img))
		if progress != nil {
			progress(i+1, len(entries))
		}
	}
	return sources, nil
}

// ExpandInputs turns command-line arguments into image entries. Files are
// kept in the given order whatever their extension; directories contribute
// their image files (non-recursive, sorted by name).
func ExpandInputs(args []string) ([]ImageEntry, error) {
	var entries []ImageEntry
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if !info.IsDir() {
			entries = append(entries, ImageEntry{Path: arg, Name: EntryName(arg)})
			continue
		}

		dirEntries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
		var names []string
		for _, de := range dirEntries {
			if !de.IsDir() && IsImageFile(de.Name()) {
				names = append(names, de.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			path := filepath.Join(arg, name)
			entries = append(entries, ImageEntry{Path: path, Name: EntryName(path)})
		}
	}
	return entries, nil
}
