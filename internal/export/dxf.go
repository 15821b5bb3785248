package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	layerAtlas  = "ATLAS"
	layerFrames = "FRAMES"
)

// ExportDXF writes the atlas layout as a DXF drawing: the atlas outline on
// one layer and every frame rectangle on another, in pixel units. DXF has a
// y-up axis, so rows are flipped to keep the drawing upright.
func ExportDXF(path string, m Manifest) error {
	if len(m.Frames) == 0 {
		return fmt.Errorf("no frames to export")
	}

	d := dxf.NewDrawing()
	d.AddLayer(layerAtlas, dxf.DefaultColor, dxf.DefaultLineType, true)
	if err := drawRect(d, 0, 0, float64(m.Image.Width), float64(m.Image.Height)); err != nil {
		return err
	}

	d.AddLayer(layerFrames, dxf.DefaultColor, dxf.DefaultLineType, true)
	atlasH := float64(m.Image.Height)
	for _, f := range m.Frames {
		x := float64(f.X)
		y := atlasH - float64(f.Y+f.Height)
		if err := drawRect(d, x, y, float64(f.Width), float64(f.Height)); err != nil {
			return fmt.Errorf("frame %q: %w", f.Name, err)
		}
	}

	return d.SaveAs(path)
}

// drawRect adds the four edges of a rectangle on the current layer.
func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i, a := range corners {
		b := corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
