// Package export provides functionality for exporting packed atlases and
// their layout to various file formats.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 30.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	sidePanel    = 70.0 // preview and QR column on the layout page
	previewSize  = 60.0 // mm
	reportQRSize = 40.0 // mm
	tableRowH    = 6.0
)

// reportSummary is the payload of the report's QR code.
type reportSummary struct {
	ID     string  `json:"id"`
	File   string  `json:"file"`
	Width  int     `json:"w"`
	Height int     `json:"h"`
	Frames int     `json:"frames"`
	Waste  float64 `json:"waste"`
	Digest string  `json:"digest"`
}

// ExportReport generates a PDF document describing a packed atlas: a layout
// page with every frame drawn to scale, a preview thumbnail and a QR code
// of the summary, followed by the scale candidates that were evaluated.
func ExportReport(path string, result model.AtlasResult, m Manifest) error {
	if len(m.Frames) == 0 {
		return fmt.Errorf("no frames to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	if err := renderLayoutPage(pdf, result, m); err != nil {
		return err
	}

	renderCandidatePages(pdf, result, m)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the atlas layout on the current PDF page.
func renderLayoutPage(pdf *fpdf.Fpdf, result model.AtlasResult, m Manifest) error {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Atlas: %s (%d x %d px)", m.Image.File, m.Image.Width, m.Image.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Frames: %d | Scale: %.2f x %.2f | Source waste: %.2f%% | Final waste: %.2f%%",
		len(m.Frames), m.ScaleX, m.ScaleY, m.SourceWaste*100, m.Waste*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - sidePanel
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	atlasW := math.Max(float64(m.Image.Width), 1)
	atlasH := math.Max(float64(m.Image.Height), 1)
	scale := math.Min(drawWidth/atlasW, drawHeight/atlasH)

	canvasW := atlasW * scale
	canvasH := atlasH * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Atlas background (transparent area)
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	colors := framePalette(len(m.Frames))
	for i, f := range m.Frames {
		col := colors[i]
		fw := float64(f.Width) * scale
		fh := float64(f.Height) * scale
		fx := offsetX + float64(f.X)*scale
		fy := offsetY + float64(f.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(fx, fy, fw, fh, "FD")

		// Frame label (only if rectangle is large enough)
		if fw > 15 && fh > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(fw, fh))
			pdf.SetTextColor(0, 0, 0)

			dims := fmt.Sprintf("%dx%d", f.Width, f.Height)
			labelW := pdf.GetStringWidth(f.Name)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < fw-2 {
				pdf.SetXY(fx+(fw-labelW)/2, fy+fh/2-4)
				pdf.CellFormat(labelW, 4, f.Name, "", 0, "C", false, 0, "")
			}
			if fh > 14 && dimsW < fw-2 {
				pdf.SetXY(fx+(fw-dimsW)/2, fy+fh/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, m.Image, offsetX, offsetY, canvasW, canvasH)

	panelX := pageWidth - marginRight - sidePanel + 10
	if err := drawPreview(pdf, result, panelX, drawAreaTop); err != nil {
		return err
	}
	if err := drawSummaryQR(pdf, m, panelX+(previewSize-reportQRSize)/2, drawAreaTop+previewSize+8); err != nil {
		return err
	}

	drawFramesLegend(pdf, m.Frames, colors, offsetY+canvasH+8)
	drawFooter(pdf)
	return nil
}

// drawPreview embeds a thumbnail of the atlas pixels.
func drawPreview(pdf *fpdf.Fpdf, result model.AtlasResult, x, y float64) error {
	if result.Image == nil || result.Image.Rect.Empty() {
		return nil
	}
	thumb := imaging.Fit(result.Image, 512, 512, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	pdf.RegisterImageOptionsReader("atlas_preview", fpdf.ImageOptions{ImageType: "PNG"}, &buf)

	tw, th := float64(thumb.Rect.Dx()), float64(thumb.Rect.Dy())
	scale := previewSize / math.Max(tw, th)
	w, h := tw*scale, th*scale

	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, previewSize, previewSize, "D")
	pdf.ImageOptions("atlas_preview", x+(previewSize-w)/2, y+(previewSize-h)/2, w, h, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y+previewSize+1)
	pdf.CellFormat(previewSize, 4, "Preview", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// drawSummaryQR renders a QR code carrying the manifest summary as JSON.
func drawSummaryQR(pdf *fpdf.Fpdf, m Manifest, x, y float64) error {
	data, err := json.Marshal(reportSummary{
		ID:     m.ID,
		File:   m.Image.File,
		Width:  m.Image.Width,
		Height: m.Image.Height,
		Frames: len(m.Frames),
		Waste:  math.Round(m.Waste*10000) / 10000,
		Digest: m.Digest,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("summary_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("summary_qr", x, y, reportQRSize, reportQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

// drawDimensionAnnotations adds width and height labels outside the atlas rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, img ManifestImage, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Width annotation (below the atlas)
	widthLabel := fmt.Sprintf("%d px", img.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height annotation (to the left of the atlas, rotated)
	heightLabel := fmt.Sprintf("%d px", img.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawFramesLegend renders a compact legend of frames below the layout.
func drawFramesLegend(pdf *fpdf.Fpdf, frames []Frame, colors []frameColor, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Frames placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight
	maxY := pageHeight - marginBottom - 5

	for i, f := range frames {
		label := fmt.Sprintf("%s (%dx%d)", f.Name, f.Width, f.Height)
		labelW := pdf.GetStringWidth(label) + 6

		// Wrap to next line if needed
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > maxY {
			pdf.SetXY(xPos, startY-5)
			pdf.CellFormat(30, 4, fmt.Sprintf("... %d more", len(frames)-i), "", 0, "L", false, 0, "")
			return
		}

		col := colors[i]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderCandidatePages draws the scale candidate table, continuing on new
// pages as needed.
func renderCandidatePages(pdf *fpdf.Fpdf, result model.AtlasResult, m Manifest) {
	colWidths := []float64{20, 30, 30, 50, 35, 40, 62}
	headers := []string{"#", "Scale X", "Scale Y", "Canvas bound", "Placed", "Atlas", "Waste"}

	y := pageHeight // force a page on the first row
	for i, c := range result.Candidates {
		if y+tableRowH > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = renderCandidateHeader(pdf, m, i == 0, colWidths, headers)
		}

		atlas := "-"
		waste := "invalid packing"
		if c.Complete {
			atlas = fmt.Sprintf("%d x %d", c.Width, c.Height)
			waste = fmt.Sprintf("%.2f%%", c.Waste*100)
		} else if c.Err != "" {
			waste = c.Err
		}
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", c.ScaleX),
			fmt.Sprintf("%.2f", c.ScaleY),
			fmt.Sprintf("%.1f x %.1f", c.MaxWidth, c.MaxHeight),
			fmt.Sprintf("%d / %d", c.Placed, c.Input),
			atlas,
			waste,
		}

		// Highlight the winner, alternate the rest
		switch {
		case c.Complete && c.ScaleX == result.ScaleX && c.ScaleY == result.ScaleY:
			pdf.SetFillColor(200, 230, 201)
		case i%2 == 0:
			pdf.SetFillColor(245, 245, 245)
		default:
			pdf.SetFillColor(255, 255, 255)
		}

		pdf.SetFont("Helvetica", "", 9)
		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], tableRowH, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += tableRowH
	}
}

// renderCandidateHeader draws the page title (first page only) and the
// table header, returning the y position of the first row.
func renderCandidateHeader(pdf *fpdf.Fpdf, m Manifest, first bool, colWidths []float64, headers []string) float64 {
	y := marginTop
	if first {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Scale Search Summary", "", 0, "L", false, 0, "")

		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.5)
		pdf.Line(marginLeft, y+12, pageWidth-marginRight, y+12)
		y += 18

		summaryItems := []struct {
			label string
			value string
		}{
			{"Manifest ID", m.ID},
			{"Chosen Scale", fmt.Sprintf("%.2f x %.2f", m.ScaleX, m.ScaleY)},
			{"Atlas Size", fmt.Sprintf("%d x %d px", m.Image.Width, m.Image.Height)},
			{"Waste", fmt.Sprintf("%.2f%% (from %.2f%%)", m.Waste*100, m.SourceWaste*100)},
		}
		pdf.SetFont("Helvetica", "", 10)
		for _, item := range summaryItems {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(120, 6, item.value, "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			y += 7
		}
		y += 5
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], tableRowH, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	drawFooter(pdf)
	return y + tableRowH
}

func drawFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by AtlasPack - Texture Atlas Packer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
