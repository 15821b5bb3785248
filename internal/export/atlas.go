package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// SaveAtlas encodes img to path; the format follows the extension (png,
// jpg, gif, tif, bmp). Missing parent directories are created.
func SaveAtlas(path string, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("atlas is empty")
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("saving atlas %s: %w", path, err)
	}
	return nil
}
