// ABOUTME: Daily plan: assessment, budget, allocation and next-day recommendations.
// ABOUTME: The reference day is the day whose data drives the plan for the day after.
package energy

import (
	"fmt"
	"time"

	"github.com/harperreed/energy/internal/models"
)

// DailyPlan is everything the plan view shows.
type DailyPlan struct {
	Reference  string         `json:"reference"`
	Today      string         `json:"today"`
	Assessment Assessment     `json:"assessment"`
	Breakdown  Breakdown      `json:"breakdown"`
	Plan       Plan           `json:"plan"`
	NoGoals    bool           `json:"no_goals"`
	Sleep      Recommendation `json:"sleep"`
	Exercise   Recommendation `json:"exercise"`
}

// Planner assembles daily plans.
type Planner struct {
	assessor    *Assessor
	recommender *Recommender
	goals       GoalReader
}

// NewPlanner creates a planner.
func NewPlanner(assessor *Assessor, recommender *Recommender, goals GoalReader) *Planner {
	return &Planner{assessor: assessor, recommender: recommender, goals: goals}
}

// Daily builds the plan from reference's data. Recommendations are for the
// following day.
func (p *Planner) Daily(reference time.Time) (DailyPlan, error) {
	reference = models.StartOfDay(reference)
	today := models.AddDays(reference, 1)

	a, err := p.assessor.Assess(reference)
	if err != nil {
		return DailyPlan{}, fmt.Errorf("assess %s: %w", models.DayKey(reference), err)
	}
	breakdown := BudgetBreakdown(a)

	goals, err := p.goals.ActiveGoals()
	if err != nil {
		return DailyPlan{}, fmt.Errorf("list active goals: %w", err)
	}

	sleep, err := p.recommender.Sleep(today)
	if err != nil {
		return DailyPlan{}, err
	}
	exercise, err := p.recommender.Exercise(today)
	if err != nil {
		return DailyPlan{}, err
	}

	return DailyPlan{
		Reference:  models.DayKey(reference),
		Today:      models.DayKey(today),
		Assessment: a,
		Breakdown:  breakdown,
		Plan:       Allocate(goals, breakdown.Total),
		NoGoals:    len(goals) == 0,
		Sleep:      sleep,
		Exercise:   exercise,
	}, nil
}
