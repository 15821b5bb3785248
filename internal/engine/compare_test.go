package engine

import (
	"testing"

	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios(t *testing.T) {
	base := model.DefaultSettings()
	scenarios := BuildDefaultScenarios(base)

	require.Len(t, scenarios, 3)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, "Fine Grid", scenarios[1].Name)
	assert.Len(t, scenarios[1].Settings.ScalesX, 2*len(base.ScalesX)-1)
	assert.InDelta(t, 0.55, scenarios[1].Settings.ScalesX[1], 1e-9)
	assert.Equal(t, "Full Canvas", scenarios[2].Name)
	assert.Equal(t, []float64{1}, scenarios[2].Settings.ScalesX)

	// Base settings are left untouched.
	assert.Len(t, base.ScalesX, len(model.DefaultScales))
}

func TestBuildDefaultScenarios_SingleScaleSkipsFineGrid(t *testing.T) {
	scenarios := BuildDefaultScenarios(testSettings([]float64{1}, []float64{1}))
	require.Len(t, scenarios, 2)
	assert.Equal(t, "Full Canvas", scenarios[1].Name)
}

func TestCompareScenarios(t *testing.T) {
	sources := []*model.SourceImage{opaqueSource(0, 10, 10), opaqueSource(1, 10, 20)}
	scenarios := []ComparisonScenario{
		{Name: "Too Small", Settings: testSettings([]float64{0.5}, []float64{0.5})},
		{Name: "Unscaled", Settings: testSettings([]float64{1}, []float64{1})},
	}

	results, err := CompareScenarios(scenarios, sources)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Valid)
	assert.Equal(t, 1, results[0].Candidates)
	assert.Equal(t, 0, results[0].ValidCount)

	assert.True(t, results[1].Valid)
	assert.Equal(t, 1, results[1].ValidCount)
	assert.Equal(t, 10, results[1].Width)
	assert.Equal(t, 30, results[1].Height)
	assert.Equal(t, 0.0, results[1].WastePercent)
}

func TestCompareScenarios_PropagatesInputErrors(t *testing.T) {
	_, err := CompareScenarios(BuildDefaultScenarios(model.DefaultSettings()), nil)
	assert.Error(t, err)
}
