package export

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// Generator identifies the program in written manifests.
const Generator = "atlaspack"

// Manifest formats accepted by WriteManifest and ReadManifest.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// Manifest describes a packed atlas: where each source crop ended up.
type Manifest struct {
	ID          string        `json:"id" yaml:"id" cbor:"1,keyasint"`
	Generator   string        `json:"generator" yaml:"generator" cbor:"2,keyasint"`
	Image       ManifestImage `json:"image" yaml:"image" cbor:"3,keyasint"`
	ScaleX      float64       `json:"scale_x" yaml:"scale_x" cbor:"4,keyasint"`
	ScaleY      float64       `json:"scale_y" yaml:"scale_y" cbor:"5,keyasint"`
	Waste       float64       `json:"waste" yaml:"waste" cbor:"6,keyasint"`
	SourceWaste float64       `json:"source_waste" yaml:"source_waste" cbor:"7,keyasint"`
	Digest      string        `json:"digest" yaml:"digest" cbor:"8,keyasint"` // BLAKE3 of the atlas pixels
	Frames      []Frame       `json:"frames" yaml:"frames" cbor:"9,keyasint"`
}

// ManifestImage names the atlas file and its size.
type ManifestImage struct {
	File   string `json:"file" yaml:"file" cbor:"1,keyasint"`
	Width  int    `json:"width" yaml:"width" cbor:"2,keyasint"`
	Height int    `json:"height" yaml:"height" cbor:"3,keyasint"`
}

// Frame maps one source crop to its atlas position.
type Frame struct {
	Name         string `json:"name" yaml:"name" cbor:"1,keyasint"`
	Source       int    `json:"source" yaml:"source" cbor:"2,keyasint"`
	X            int    `json:"x" yaml:"x" cbor:"3,keyasint"`
	Y            int    `json:"y" yaml:"y" cbor:"4,keyasint"`
	Width        int    `json:"w" yaml:"w" cbor:"5,keyasint"`
	Height       int    `json:"h" yaml:"h" cbor:"6,keyasint"`
	OffsetX      int    `json:"offset_x" yaml:"offset_x" cbor:"7,keyasint"`
	OffsetY      int    `json:"offset_y" yaml:"offset_y" cbor:"8,keyasint"`
	SourceWidth  int    `json:"source_w" yaml:"source_w" cbor:"9,keyasint"`
	SourceHeight int    `json:"source_h" yaml:"source_h" cbor:"10,keyasint"`
}

// BuildManifest describes result. Frames follow placement order. A frame is
// named after its source; sources that produced several crops get a
// "#part" suffix on every crop.
func BuildManifest(result model.AtlasResult, sources []*model.SourceImage, imageFile string) Manifest {
	crops := make(map[int]int)
	for _, p := range result.Placements {
		crops[p.Source]++
	}

	frames := make([]Frame, 0, len(result.Placements))
	for _, p := range result.Placements {
		name := fmt.Sprintf("image%d", p.Source)
		var sw, sh int
		if p.Source >= 0 && p.Source < len(sources) && sources[p.Source] != nil {
			src := sources[p.Source]
			if src.Name != "" {
				name = src.Name
			}
			sw, sh = src.Width(), src.Height()
		}
		if crops[p.Source] > 1 {
			name = fmt.Sprintf("%s#%d", name, p.Part)
		}
		frames = append(frames, Frame{
			Name:         name,
			Source:       p.Source,
			X:            p.X,
			Y:            p.Y,
			Width:        p.Width,
			Height:       p.Height,
			OffsetX:      p.OffsetX,
			OffsetY:      p.OffsetY,
			SourceWidth:  sw,
			SourceHeight: sh,
		})
	}

	return Manifest{
		ID:          uuid.New().String(),
		Generator:   Generator,
		Image:       ManifestImage{File: imageFile, Width: result.Width, Height: result.Height},
		ScaleX:      result.ScaleX,
		ScaleY:      result.ScaleY,
		Waste:       result.Waste,
		SourceWaste: result.SourceWaste,
		Digest:      PixelDigest(result),
		Frames:      frames,
	}
}

// PixelDigest returns the hex BLAKE3 hash of the atlas size and pixels.
// Identical inputs always produce the same digest.
func PixelDigest(result model.AtlasResult) string {
	h := blake3.New()
	fmt.Fprintf(h, "%dx%d:", result.Width, result.Height)
	if result.Image != nil {
		img := result.Image
		w := img.Rect.Dx()
		for y := 0; y < img.Rect.Dy(); y++ {
			h.Write(img.Pix[y*img.Stride : y*img.Stride+w*4])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FormatFromPath infers a manifest format from a file extension, defaulting
// to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".cbor":
		return FormatCBOR
	default:
		return FormatJSON
	}
}

var cborEncMode cbor.EncMode

func init() {
	var err error
	// Core deterministic encoding keeps the manifest bytes stable.
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("export: CBOR encoder initialization failed: " + err.Error())
	}
}

// EncodeManifest serialises m in the given format.
func EncodeManifest(m Manifest, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(m, "", "  ")
	case FormatYAML:
		return yaml.Marshal(m)
	case FormatCBOR:
		return cborEncMode.Marshal(m)
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
}

// DecodeManifest parses data written by EncodeManifest.
func DecodeManifest(data []byte, format string) (Manifest, error) {
	var m Manifest
	var err error
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, &m)
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	case FormatCBOR:
		err = cbor.Unmarshal(data, &m)
	default:
		return m, fmt.Errorf("unknown manifest format %q", format)
	}
	return m, err
}

// WriteManifest writes m to path. An empty format is inferred from the
// extension.
func WriteManifest(path string, m Manifest, format string) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	data, err := EncodeManifest(m, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadManifest loads a manifest, inferring the format from the extension.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	return DecodeManifest(data, FormatFromPath(path))
}
