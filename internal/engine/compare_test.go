package engine

import (
	"testing"

	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(testSettings(20, 20))
	require.Len(t, scenarios, 4)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, "No Overlap", scenarios[1].Name)
	assert.Equal(t, "Overlap 10%", scenarios[2].Name)
	assert.Equal(t, "Overlap 50%", scenarios[3].Name)
	assert.Equal(t, 50.0, scenarios[3].Settings.Overlap.Vertical)
	assert.Equal(t, 1000.0, scenarios[3].Settings.Scale)
}

func TestBuildDefaultScenarios_AsymmetricOverlap(t *testing.T) {
	scenarios := BuildDefaultScenarios(testSettings(20, 0))
	assert.Len(t, scenarios, 5)
}

func TestCompareScenarios(t *testing.T) {
	aoi := aoiOf(box(450, 420, 550, 530))
	fb := &recordingFeedback{}
	results, err := CompareScenarios(BuildDefaultScenarios(testSettings(20, 0)), testExtent, &aoi, geometry.NewRectEngine(), fb)
	require.NoError(t, err)
	require.Len(t, results, 5)

	current := results[0]
	require.NoError(t, current.Err)
	assert.Equal(t, 1, current.Summary.Kept)
	assert.Equal(t, 41, current.Summary.Deleted)

	none := results[1]
	require.NoError(t, none.Err)
	assert.Equal(t, 36, none.Summary.Kept)
	assert.Zero(t, none.Summary.Deleted)
	assert.Zero(t, none.Summary.Blocks)

	assert.Len(t, fb.messages, 5, "one message per scenario")
	assert.Empty(t, fb.progress)
}

func TestCompareScenarios_RecordsFailures(t *testing.T) {
	bad := testSettings(0, 0)
	bad.Scale = -1
	scenarios := []ComparisonScenario{{Name: "bad", Settings: bad}, {Name: "good", Settings: testSettings(0, 0)}}

	results, err := CompareScenarios(scenarios, testExtent, nil, geometry.NewRectEngine(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, ErrInvalidInput)
	assert.Nil(t, results[0].Grid)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 36, results[1].Summary.Kept)
}

func TestCompareScenarios_StopsOnCancel(t *testing.T) {
	fb := &recordingFeedback{cancelAfter: 1}
	_, err := CompareScenarios(BuildDefaultScenarios(testSettings(0, 0)), testExtent, nil, geometry.NewRectEngine(), fb)
	assert.ErrorIs(t, err, ErrCancelled)
}
