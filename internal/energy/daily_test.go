// ABOUTME: Tests for the daily planner against the fake store and real SQLite.
// ABOUTME: The SQLite case checks the engine end to end through storage.Repository.
package energy

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

func TestDailyWithoutGoals(t *testing.T) {
	f := &fakeStore{}
	plan, err := New(f).Planner.Daily(refDay)
	require.NoError(t, err)

	assert.True(t, plan.NoGoals)
	assert.True(t, plan.Plan.Empty())
	assert.Equal(t, BaseBudget, plan.Plan.Remaining)
	assert.Equal(t, StateNoData, plan.Assessment.State)
	assert.Equal(t, "insufficient_data", plan.Sleep.Rule)
	assert.Equal(t, "2025-03-11", plan.Today)
}

func TestDailyPlan(t *testing.T) {
	f := &fakeStore{}
	f.add(models.MetricSleepTotalMin, 480, 0, 7)
	f.add(models.MetricRHRAvg, 60, 0, 8)
	f.addGoal("Ship release", models.PriorityHigh, -40)
	f.addGoal("Review PRs", models.PriorityHigh, -30)
	f.addGoal("Walk", models.PriorityMedium, 10)
	f.addGoal("Clean garage", models.PriorityLow, -10)

	plan, err := New(f).Planner.Daily(refDay.Add(20 * time.Hour))
	require.NoError(t, err)

	assert.False(t, plan.NoGoals)
	assert.Equal(t, "2025-03-10", plan.Reference)
	assert.Equal(t, StateReady, plan.Assessment.State)
	assert.Equal(t, 70, plan.Breakdown.Total)
	assert.Equal(t, []string{"Walk", "Review PRs", "Ship release"}, names(plan.Plan))
	assert.Equal(t, 10, plan.Plan.Remaining)

	again, err := New(f).Planner.Daily(refDay)
	require.NoError(t, err)
	assert.Equal(t, plan, again)
}

func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "energy.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEngineOnSQLite(t *testing.T) {
	db := setupTestDB(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	samples := []*models.MetricSample{
		models.NewMetricSample(models.MetricSleepTotalMin, 390).WithRecordedAt(day.Add(7 * time.Hour)),
		models.NewMetricSample(models.MetricRHRAvg, 62).WithRecordedAt(day.Add(8 * time.Hour)),
		models.NewMetricSample(models.MetricRHRAvg, 60).WithRecordedAt(day.AddDate(0, 0, -1).Add(8 * time.Hour)),
	}
	for _, m := range samples {
		require.NoError(t, db.CreateMetric(m))
	}
	p1 := models.NewGoal("Ship release", models.PriorityHigh, -25)
	require.NoError(t, db.CreateGoal(p1))
	require.NoError(t, db.CreateGoal(models.NewGoal("Stretch", models.PriorityLow, 5)))

	engine := New(db)

	a, err := engine.Assessor.Assess(day)
	require.NoError(t, err)
	assert.Equal(t, StateFatigued, a.State)
	assert.Equal(t, 60.0, a.RHRBaseline)

	plan, err := engine.Planner.Daily(day)
	require.NoError(t, err)
	// 50 base, 0 for 6.5h sleep, 0 for a +2 rhr delta.
	assert.Equal(t, 50, plan.Breakdown.Total)
	assert.Equal(t, []string{"Stretch", "Ship release"}, names(plan.Plan))
	assert.Equal(t, 30, plan.Plan.Remaining)

	ev := models.NewEvent("Outline", 20, models.KeyStateGrowth).
		WithScores(7, 7, 7).
		WithStartedAt(day.Add(9 * time.Hour)).
		WithGoal(p1.ID)
	require.NoError(t, db.CreateEvent(ev))

	g, err := engine.Guide.ForEvent(ev)
	require.NoError(t, err)
	assert.Equal(t, "goal_progress", g.Rule)
	assert.Contains(t, g.Lines[0], "Ship release")
}
