// ABOUTME: Tests for the readiness cascade, signal gathering and the budget.
// ABOUTME: Pins the no-data asymmetries alongside the documented examples.
package energy

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energy/internal/models"
)

func TestAssessShortSleepIsFatigued(t *testing.T) {
	f := &fakeStore{}
	f.add(models.MetricSleepTotalMin, 390, 0, 7)

	a, err := NewAssessor(f).Assess(refDay)
	require.NoError(t, err)

	assert.Equal(t, StateFatigued, a.State)
	assert.InDelta(t, 6.5, a.SleepHours, 1e-9)
	require.Len(t, a.Messages, 1)
	assert.Contains(t, a.Messages[0], "6.5 hours")
}

func TestAssessElevatedRHRIsStressed(t *testing.T) {
	f := &fakeStore{}
	f.add(models.MetricSleepTotalMin, 480, 0, 7)
	f.add(models.MetricRHRAvg, 70, 0, 8)
	f.add(models.MetricStressAvg, 20, 0, 20)
	for d := 1; d <= 7; d++ {
		f.add(models.MetricRHRAvg, 60, d, 8)
	}
	f.add(models.MetricWorkoutTrainLoad, 50, 1, 18)

	a, err := NewAssessor(f).Assess(refDay)
	require.NoError(t, err)

	assert.Equal(t, StateStressed, a.State)
	assert.Equal(t, 70.0, a.LatestRHR)
	assert.Equal(t, 60.0, a.RHRBaseline)
	assert.Equal(t, 50.0, a.AvgTrainLoad)
	require.Len(t, a.Messages, 1)
	assert.Contains(t, a.Messages[0], "70 bpm")
}

func TestAssessAllClear(t *testing.T) {
	f := &fakeStore{}
	f.add(models.MetricSleepTotalMin, 480, 0, 7)
	f.add(models.MetricRHRAvg, 60, 0, 8)

	a, err := NewAssessor(f).Assess(refDay)
	require.NoError(t, err)

	assert.Equal(t, StateReady, a.State)
	require.Len(t, a.Messages, 1)
	assert.True(t, strings.HasPrefix(a.Messages[0], allClearPrefix))
	assert.Empty(t, a.Warnings())
}

func TestAssessNoData(t *testing.T) {
	a, err := NewAssessor(&fakeStore{}).Assess(refDay)
	require.NoError(t, err)

	assert.Equal(t, StateNoData, a.State)
	assert.Equal(t, DefaultRHRBaseline, a.RHRBaseline)
	require.Len(t, a.Messages, 1)
	assert.Len(t, a.Warnings(), 1)
	assert.Equal(t, "2025-03-10", a.Date)
}

func TestAssessUsesLatestSampleOfTheDay(t *testing.T) {
	f := &fakeStore{}
	f.add(models.MetricSleepTotalMin, 300, 0, 6)
	f.add(models.MetricSleepTotalMin, 480, 0, 9)
	f.add(models.MetricSleepTotalMin, 0, 0, 10)

	a, err := NewAssessor(f).Assess(refDay)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, a.SleepHours, 1e-9)
}

func TestAssessBaselineExcludesTheDayItself(t *testing.T) {
	f := &fakeStore{}
	f.add(models.MetricSleepTotalMin, 480, 0, 7)
	f.add(models.MetricRHRAvg, 70, 0, 8)
	f.add(models.MetricRHRAvg, 90, 8, 8)

	a, err := NewAssessor(f).Assess(refDay)
	require.NoError(t, err)
	assert.Equal(t, DefaultRHRBaseline, a.RHRBaseline)
	assert.Equal(t, StateStressed, a.State)
}

func TestAssessPropagatesStoreErrors(t *testing.T) {
	f := &fakeStore{err: errors.New("disk gone")}
	_, err := NewAssessor(f).Assess(refDay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestEvaluateCascade(t *testing.T) {
	tests := []struct {
		name     string
		signals  Signals
		state    State
		messages int
	}{
		{"later rule overwrites state", Signals{SleepHours: 5, LatestRHR: 70, RHRBaseline: 60, AvgTrainLoad: 130}, StateFatigued, 3},
		{"stress after low sleep", Signals{SleepHours: 6, LatestRHR: 60, RHRBaseline: 60, LatestStress: 45}, StateStressed, 2},
		{"rhr at margin is fine", Signals{SleepHours: 8, LatestRHR: 64, RHRBaseline: 60}, StateReady, 1},
		{"sleep exactly seven is fine", Signals{SleepHours: 7, LatestRHR: 60, RHRBaseline: 60}, StateReady, 1},
		{"load at limit is fine", Signals{SleepHours: 8, LatestRHR: 60, RHRBaseline: 60, AvgTrainLoad: 120}, StateReady, 1},
		// Ready with no sleep but a heart rate gets no message at all.
		{"ready without sleep stays silent", Signals{LatestRHR: 60, RHRBaseline: 60}, StateReady, 0},
		// Stress alone still ends in no-data, keeping the stress warning.
		{"stress only becomes no data", Signals{RHRBaseline: 60, LatestStress: 50}, StateNoData, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Evaluate(refDay, tt.signals)
			assert.Equal(t, tt.state, a.State)
			assert.Len(t, a.Messages, tt.messages)
		})
	}
}

func TestRuleNamesOrder(t *testing.T) {
	assert.Equal(t, []string{"low_sleep", "elevated_rhr", "high_stress", "high_train_load"}, RuleNames())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "No Data", StateNoData.String())
	assert.True(t, StateFatigued.Depleted())
	assert.True(t, StateStressed.Depleted())
	assert.False(t, StateReady.Depleted())
	assert.False(t, StateNoData.Depleted())
}

func TestBudgetBreakdown(t *testing.T) {
	tests := []struct {
		name string
		a    Assessment
		want Breakdown
	}{
		{
			"no data is base",
			Assessment{State: StateNoData, Signals: Signals{LatestStress: 90}},
			Breakdown{Base: 50, Total: 50, NoData: true},
		},
		{
			"rested and recovered",
			Assessment{Signals: Signals{SleepHours: 8, LatestRHR: 58, RHRBaseline: 62}},
			Breakdown{Base: 50, Sleep: 20, RHR: 10, Total: 80},
		},
		{
			"mixed penalties",
			Assessment{State: StateStressed, Signals: Signals{SleepHours: 6.5, LatestRHR: 66, RHRBaseline: 60, LatestStress: 35, AvgTrainLoad: 100}},
			Breakdown{Base: 50, RHR: -15, Stress: -5, TrainLoad: -10, Total: 20},
		},
		{
			"seven hours",
			Assessment{Signals: Signals{SleepHours: 7, LatestRHR: 65, RHRBaseline: 60, LatestStress: 55}},
			Breakdown{Base: 50, Sleep: 10, RHR: -10, Stress: -15, Total: 35},
		},
		{
			"floor",
			Assessment{State: StateFatigued, Signals: Signals{SleepHours: 1, LatestRHR: 90, RHRBaseline: 60, LatestStress: 90, AvgTrainLoad: 300}},
			Breakdown{Base: 50, Sleep: -20, RHR: -15, Stress: -15, TrainLoad: -20, Total: 5},
		},
		{
			"no rhr means no rhr adjustment",
			Assessment{Signals: Signals{SleepHours: 8, RHRBaseline: 60}},
			Breakdown{Base: 50, Sleep: 20, Total: 70},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BudgetBreakdown(tt.a)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Total, Budget(tt.a))
		})
	}
}

func TestBudgetNeverBelowFloor(t *testing.T) {
	for _, sleep := range []float64{0, 0.5, 3, 6, 7, 9, 14} {
		for _, rhr := range []float64{0, 40, 60, 200} {
			for _, stress := range []float64{0, 35, 100} {
				for _, load := range []float64{0, 95, 1000} {
					for _, state := range []State{StateReady, StateFatigued, StateStressed, StateNoData} {
						a := Assessment{State: state, Signals: Signals{
							SleepHours: sleep, LatestRHR: rhr, RHRBaseline: 60,
							LatestStress: stress, AvgTrainLoad: load,
						}}
						assert.GreaterOrEqual(t, Budget(a), MinBudget)
					}
				}
			}
		}
	}
}

func TestAssessAndBudgetAreIdempotent(t *testing.T) {
	f := &fakeStore{}
	f.add(models.MetricSleepTotalMin, 410, 0, 7)
	f.add(models.MetricRHRAvg, 67, 0, 8)
	f.add(models.MetricRHRAvg, 61, 2, 8)
	f.add(models.MetricStressAvg, 44, 0, 20)
	assessor := NewAssessor(f)

	first, err := assessor.Assess(refDay)
	require.NoError(t, err)
	second, err := assessor.Assess(refDay)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, Budget(first), Budget(second))
}
