// ABOUTME: Tests for the threshold indicator and the metric display table.
// ABOUTME: Covers direction, bands, clamping, rounding and bar rendering.
package energy

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energy/internal/models"
)

var (
	sleepScoreTh = Thresholds{60, 75, 100}
	rhrTh        = Thresholds{68, 63, 50}
)

func TestIndicateMissingReading(t *testing.T) {
	ind := Indicate(models.None(), sleepScoreTh, 10)

	assert.Equal(t, BandWhite, ind.Band)
	assert.Zero(t, ind.Fill)
	assert.Equal(t, 0, ind.Filled)
	assert.Equal(t, 10, ind.Empty)
	assert.Equal(t, "░░░░░░░░░░", ind.Bar())
}

func TestIndicateHigherIsBetter(t *testing.T) {
	tests := []struct {
		value  float64
		band   Band
		filled int
	}{
		{80, BandGreen, 8},
		{75, BandGreen, 8},
		{70, BandYellow, 7},
		{60, BandYellow, 6},
		{50, BandRed, 5},
		{150, BandGreen, 10},
	}
	for _, tt := range tests {
		ind := Indicate(models.Some(tt.value), sleepScoreTh, 10)
		assert.Equal(t, tt.band, ind.Band, "value %v", tt.value)
		assert.Equal(t, tt.filled, ind.Filled, "value %v", tt.value)
		assert.Equal(t, 10-tt.filled, ind.Empty, "value %v", tt.value)
	}
}

func TestIndicateLowerIsBetter(t *testing.T) {
	tests := []struct {
		value  float64
		band   Band
		filled int
	}{
		{55, BandGreen, 8},
		{63, BandGreen, 9},
		{65, BandYellow, 10},
		{68, BandYellow, 10},
		{75, BandRed, 10},
	}
	for _, tt := range tests {
		ind := Indicate(models.Some(tt.value), rhrTh, 10)
		assert.Equal(t, tt.band, ind.Band, "value %v", tt.value)
		assert.Equal(t, tt.filled, ind.Filled, "value %v", tt.value)
	}
}

func TestIndicateFillAlwaysInUnitRange(t *testing.T) {
	for _, th := range []Thresholds{sleepScoreTh, rhrTh, {1, 30, 150}, {10, 5, 0}, {0, 0, 0}} {
		for v := -50.0; v <= 1000; v += 7.5 {
			ind := Indicate(models.Some(v), th, 10)
			assert.GreaterOrEqual(t, ind.Fill, 0.0)
			assert.LessOrEqual(t, ind.Fill, 1.0)
			assert.Equal(t, 10, ind.Filled+ind.Empty)
		}
	}
}

func TestIndicateReferenceFallbacks(t *testing.T) {
	// Higher is better with no reference uses t2.
	ind := Indicate(models.Some(15), Thresholds{1, 30, 0}, 10)
	assert.InDelta(t, 0.5, ind.Fill, 1e-9)
	assert.Equal(t, BandYellow, ind.Band)

	// Lower is better with t1 <= 0 uses 1.
	ind = Indicate(models.Some(0.5), Thresholds{0, -1, 0}, 10)
	assert.InDelta(t, 0.5, ind.Fill, 1e-9)
	assert.Equal(t, BandRed, ind.Band)
}

func TestIndicateEqualThresholdsAreLowerIsBetter(t *testing.T) {
	th := Thresholds{5, 5, 0}
	assert.False(t, th.HigherIsBetter())
	assert.Equal(t, BandGreen, Indicate(models.Some(5), th, 10).Band)
	assert.Equal(t, BandRed, Indicate(models.Some(6), th, 10).Band)
}

func TestIndicateRoundsHalfAwayFromZero(t *testing.T) {
	ind := Indicate(models.Some(25), sleepScoreTh, 10)
	assert.Equal(t, 3, ind.Filled)
}

func TestIndicateBarLength(t *testing.T) {
	ind := Indicate(models.Some(50), sleepScoreTh, 0)
	assert.Equal(t, DefaultBarLength, ind.Filled+ind.Empty)

	ind = Indicate(models.Some(50), sleepScoreTh, 20)
	assert.Equal(t, 10, ind.Filled)
	assert.Equal(t, 20, utf8.RuneCountInString(ind.Bar()))
	assert.Equal(t, "██████████░░░░░░░░░░", ind.Bar())
}

func TestBandString(t *testing.T) {
	assert.Equal(t, "green", BandGreen.String())
	assert.Equal(t, "yellow", BandYellow.String())
	assert.Equal(t, "red", BandRed.String())
	assert.Equal(t, "white", BandWhite.String())
}

func TestMetricGuides(t *testing.T) {
	require.Len(t, MetricGuides, 11)

	g, ok := GuideFor(models.MetricRHRAvg)
	require.True(t, ok)
	assert.Equal(t, AggAvg, g.Agg)
	assert.False(t, g.Thresholds.HigherIsBetter())

	g, ok = GuideFor(models.MetricWorkoutAerobicMin)
	require.True(t, ok)
	assert.Equal(t, AggSum, g.Agg)
	assert.True(t, g.Thresholds.HigherIsBetter())

	_, ok = GuideFor(models.MetricCaloriesTotal)
	assert.False(t, ok)

	seen := map[models.MetricKind]bool{}
	for _, g := range MetricGuides {
		assert.False(t, seen[g.Kind], "duplicate guide for %s", g.Kind)
		seen[g.Kind] = true
		assert.True(t, models.IsValidMetricKind(string(g.Kind)))
	}
}
