// ABOUTME: Tests for post-event guidance across every key state.
// ABOUTME: Friction cases cover the assessment, score and history branches.
package energy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energy/internal/models"
)

func newTestGuide(f *fakeStore) *Guide {
	g := NewGuide(NewAssessor(f), f, f)
	g.now = func() time.Time { return refDay.Add(15 * time.Hour) }
	return g
}

func event(activity string, minutes int, state models.KeyState, hoursAgo int) *models.Event {
	return models.NewEvent(activity, minutes, state).
		WithScores(6, 6, 6).
		WithStartedAt(refDay.Add(12 * time.Hour).Add(-time.Duration(hoursAgo) * time.Hour))
}

func TestGuideFrictionOnDepletedDay(t *testing.T) {
	f := &fakeStore{}
	f.add(models.MetricSleepTotalMin, 300, 0, 7)

	g, err := newTestGuide(f).ForEvent(frictionEvent(30, 0))
	require.NoError(t, err)

	assert.Equal(t, "recover_first", g.Rule)
	require.NotNil(t, g.Assessment)
	assert.Equal(t, StateFatigued, g.Assessment.State)
	assert.Contains(t, g.Lines, g.Assessment.Warnings()[0])
}

func TestGuideFrictionScoreRules(t *testing.T) {
	tests := []struct {
		name              string
		mental, emotional int
		rule              string
	}{
		{"low mental", 3, 3, "micro_task"},
		{"low emotional", 5, 2, "mood_first"},
		{"fine scores", 5, 5, "start_p1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := frictionEvent(30, 0).WithScores(5, tt.mental, tt.emotional)
			g, err := newTestGuide(&fakeStore{}).ForEvent(ev)
			require.NoError(t, err)
			assert.Equal(t, tt.rule, g.Rule)
			assert.Nil(t, g.Assessment)
		})
	}
}

func TestGuideFrictionSuggestsLastP1MicroTask(t *testing.T) {
	f := &fakeStore{}
	book := f.addGoal("Write book", models.PriorityHigh, -20)
	book.Active = false
	side := f.addGoal("Side project", models.PriorityMedium, -10)

	f.addEvent(event("Outline chapter", 20, models.KeyStateGrowth, 48).WithGoal(book.ID))
	f.addEvent(event("Long writing session", 90, models.KeyStateGrowth, 24).WithGoal(book.ID))
	f.addEvent(event("Prototype", 15, models.KeyStateGrowth, 5).WithGoal(side.ID))
	f.addEvent(event("Walk", 20, models.KeyStateAbundance, 3))

	g, err := newTestGuide(f).ForEvent(frictionEvent(30, 0))
	require.NoError(t, err)

	assert.Equal(t, "repeat_micro_task", g.Rule)
	require.NotEmpty(t, g.Lines)
	assert.Contains(t, g.Lines[0], "Outline chapter")
	assert.Contains(t, g.Lines[0], "Write book")
}

func TestGuideFrictionSwallowsAssessmentErrors(t *testing.T) {
	f := &fakeStore{err: errors.New("metrics unavailable")}

	g, err := newTestGuide(f).ForEvent(frictionEvent(30, 0))
	require.NoError(t, err)
	assert.Equal(t, "start_p1", g.Rule)
}

func TestGuideConsumption(t *testing.T) {
	f := &fakeStore{}
	g, err := newTestGuide(f).ForEvent(event("Sprint", 60, models.KeyStateConsumption, 0))
	require.NoError(t, err)
	assert.Equal(t, "active_rest", g.Rule)

	f.addEvent(event("Nap", 20, models.KeyStateAbundance, 2))
	f.addEvent(event("Walk", 30, models.KeyStateAbundance, 30))
	f.addEvent(event("Walk", 25, models.KeyStateAbundance, 50))
	f.addEvent(event("Nap", 20, models.KeyStateRoutine, 60))
	f.addEvent(event("Nap", 20, models.KeyStateRoutine, 70))

	g, err = newTestGuide(f).ForEvent(event("Sprint", 60, models.KeyStateConsumption, 0))
	require.NoError(t, err)
	assert.Equal(t, "favorite_abundance", g.Rule)
	assert.Contains(t, g.Lines[0], "'Walk'")
}

func TestMostFrequentActivityTieGoesToFirstSeen(t *testing.T) {
	events := []*models.Event{
		event("Yoga", 10, models.KeyStateAbundance, 1),
		event("Walk", 10, models.KeyStateAbundance, 2),
		event("Walk", 10, models.KeyStateAbundance, 3),
		event("Yoga", 10, models.KeyStateAbundance, 4),
	}
	assert.Equal(t, "Yoga", mostFrequentActivity(events))
	assert.Equal(t, "", mostFrequentActivity(nil))
}

func TestGuidePositiveStates(t *testing.T) {
	f := &fakeStore{}
	goal := f.addGoal("Learn Go", models.PriorityHigh, -15)

	g, err := newTestGuide(f).ForEvent(event("Tour of Go", 30, models.KeyStateGrowth, 0).WithGoal(goal.ID))
	require.NoError(t, err)
	assert.Equal(t, "goal_progress", g.Rule)
	assert.Contains(t, g.Lines[0], "Learn Go")
	assert.Contains(t, g.Headline, "Growth")

	g, err = newTestGuide(f).ForEvent(event("Run", 30, models.KeyStateAbundance, 0))
	require.NoError(t, err)
	assert.Equal(t, "refill", g.Rule)

	orphan := models.NewGoal("Gone", models.PriorityLow, 1)
	g, err = newTestGuide(f).ForEvent(event("Run", 30, models.KeyStateAbundance, 0).WithGoal(orphan.ID))
	require.NoError(t, err)
	assert.Equal(t, "refill", g.Rule)
}

func TestGuideRoutine(t *testing.T) {
	g, err := newTestGuide(&fakeStore{}).ForEvent(event("Dishes", 15, models.KeyStateRoutine, 0))
	require.NoError(t, err)
	assert.Equal(t, "transition", g.Rule)
	assert.Contains(t, g.Lines[0], "25-minute")
}

func TestGuideRejectsUnknownKeyState(t *testing.T) {
	_, err := newTestGuide(&fakeStore{}).ForEvent(event("???", 15, models.KeyState(0), 0))
	assert.Error(t, err)
}
