package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// Sheet names used by ExportSpreadsheet.
const (
	framesSheet     = "Frames"
	candidatesSheet = "Candidates"
)

// ExportSpreadsheet writes an Excel workbook with one row per frame and one
// row per evaluated scale candidate.
func ExportSpreadsheet(path string, m Manifest, candidates []model.CandidateResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), framesSheet); err != nil {
		return err
	}
	frameRows := [][]interface{}{
		{"Name", "Source", "X", "Y", "Width", "Height", "Offset X", "Offset Y", "Source Width", "Source Height"},
	}
	for _, fr := range m.Frames {
		frameRows = append(frameRows, []interface{}{
			fr.Name, fr.Source, fr.X, fr.Y, fr.Width, fr.Height,
			fr.OffsetX, fr.OffsetY, fr.SourceWidth, fr.SourceHeight,
		})
	}
	if err := writeRows(f, framesSheet, frameRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(candidatesSheet); err != nil {
		return err
	}
	candRows := [][]interface{}{
		{"Scale X", "Scale Y", "Max Width", "Max Height", "Placed", "Input", "Complete", "Width", "Height", "Waste %", "Error"},
	}
	for _, c := range candidates {
		waste := interface{}("")
		if c.Complete {
			waste = c.Waste * 100
		}
		candRows = append(candRows, []interface{}{
			c.ScaleX, c.ScaleY, c.MaxWidth, c.MaxHeight, c.Placed, c.Input,
			c.Complete, c.Width, c.Height, waste, c.Err,
		})
	}
	if err := writeRows(f, candidatesSheet, candRows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

// writeRows writes rows starting at A1.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
