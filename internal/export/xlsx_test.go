package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.xlsx")
	result, _ := buildTestResult()

	require.NoError(t, ExportSpreadsheet(path, buildTestManifest(), result.Candidates))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{framesSheet, candidatesSheet}, f.GetSheetList())

	frames, err := f.GetRows(framesSheet)
	require.NoError(t, err)
	require.Len(t, frames, 4)
	assert.Equal(t, "Name", frames[0][0])
	assert.Equal(t, []string{"hero#1", "0", "4", "0", "4", "6", "9", "9", "16", "16"}, frames[2])

	cands, err := f.GetRows(candidatesSheet)
	require.NoError(t, err)
	require.Len(t, cands, 4)
	assert.Equal(t, "Waste %", cands[0][9])
	assert.Equal(t, "TRUE", cands[2][6])
	assert.Equal(t, "degenerate image 1: 0x4", cands[3][10])
}

func TestExportSpreadsheet_NoCandidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.xlsx")
	require.NoError(t, ExportSpreadsheet(path, buildTestManifest(), nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	cands, err := f.GetRows(candidatesSheet)
	require.NoError(t, err)
	assert.Len(t, cands, 1)
}
