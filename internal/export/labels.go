package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// FrameInfo holds the data encoded into each frame card's QR code.
type FrameInfo struct {
	Name    string `json:"name"`
	Atlas   string `json:"atlas"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"w"`
	Height  int    `json:"h"`
	Source  int    `json:"source"`
	OffsetX int    `json:"ox"`
	OffsetY int    `json:"oy"`
}

// Card layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each card is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per card
	labelHeight     = 25.4  // mm per card
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	thumbSize       = 20.0 // frame thumbnail size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportFrameCards generates a PDF of frame cards, one per manifest frame.
// Each card shows the frame's pixels cut from the atlas, its name and
// rectangle, and a QR code encoding the frame as JSON. Cards are laid out
// on a standard label sheet (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportFrameCards(path string, m Manifest, atlas *image.NRGBA) error {
	infos := CollectFrameInfos(m)
	if len(infos) == 0 {
		return fmt.Errorf("no frames to generate cards for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, info := range infos {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderCard(pdf, x, y, i, info, atlas); err != nil {
			return fmt.Errorf("failed to render card for %q: %w", info.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderCard draws a single frame card at the given position.
func renderCard(pdf *fpdf.Fpdf, x, y float64, idx int, info FrameInfo, atlas *image.NRGBA) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal frame info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	qrName := fmt.Sprintf("qr_%d", idx)
	pdf.RegisterImageOptionsReader(qrName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(qrName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	if atlas != nil {
		if err := drawFrameThumb(pdf, x+labelPadding, y+(labelHeight-thumbSize)/2, idx, info, atlas); err != nil {
			return err
		}
		textX += thumbSize + labelPadding
	}
	textW := qrX - labelPadding - textX

	// Frame name (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	// Truncate name if too long
	name := info.Name
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	// Dimensions
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d x %d px", info.Width, info.Height), "", 1, "L", false, 0, "")

	// Atlas position and source crop
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Atlas @ (%d, %d)", info.X, info.Y), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Source %d @ (%d, %d)", info.Source, info.OffsetX, info.OffsetY), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// drawFrameThumb embeds the frame's pixels, cut from the atlas.
func drawFrameThumb(pdf *fpdf.Fpdf, x, y float64, idx int, info FrameInfo, atlas *image.NRGBA) error {
	r := image.Rect(info.X, info.Y, info.X+info.Width, info.Y+info.Height)
	if !r.In(atlas.Rect) || r.Empty() {
		return nil
	}
	thumb := imaging.Fit(imaging.Crop(atlas, r), 128, 128, imaging.NearestNeighbor)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	thumbName := fmt.Sprintf("thumb_%d", idx)
	pdf.RegisterImageOptionsReader(thumbName, fpdf.ImageOptions{ImageType: "PNG"}, &buf)

	tw, th := float64(thumb.Rect.Dx()), float64(thumb.Rect.Dy())
	scale := thumbSize / max(tw, th)
	w, h := tw*scale, th*scale
	pdf.ImageOptions(thumbName, x+(thumbSize-w)/2, y+(thumbSize-h)/2, w, h, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

// CollectFrameInfos extracts card information from a manifest for use in
// testing or alternative export formats.
func CollectFrameInfos(m Manifest) []FrameInfo {
	infos := make([]FrameInfo, 0, len(m.Frames))
	for _, f := range m.Frames {
		infos = append(infos, FrameInfo{
			Name:    f.Name,
			Atlas:   m.Image.File,
			X:       f.X,
			Y:       f.Y,
			Width:   f.Width,
			Height:  f.Height,
			Source:  f.Source,
			OffsetX: f.OffsetX,
			OffsetY: f.OffsetY,
		})
	}
	return infos
}
