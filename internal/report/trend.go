// ABOUTME: Trend table: daily physiology next to hours per key state.
// ABOUTME: Rows are flagged for low sleep, high resting heart rate or heavy friction.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/energy/internal/models"
)

// DefaultTrendDays is used when no day count is given.
const DefaultTrendDays = 7

// The trend view compares against a fixed baseline rather than the rolling one.
const (
	trendRHRBaseline   = 65.0
	trendRHRMargin     = 4.0
	trendLowSleepScore = 70.0
	trendFrictionHours = 2.0
)

// Flag marks a trend row worth attention.
type Flag int

const (
	FlagNone Flag = iota
	FlagLowSleep
	FlagHighRHR
	FlagFriction
)

func (f Flag) String() string {
	switch f {
	case FlagLowSleep:
		return "low_sleep"
	case FlagHighRHR:
		return "high_rhr"
	case FlagFriction:
		return "friction"
	default:
		return ""
	}
}

// MarshalJSON writes the flag name.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// TrendRow is one day of the trend table.
type TrendRow struct {
	Date             string   `json:"date"`
	SleepScore       *float64 `json:"sleep_score"`
	SleepHours       *float64 `json:"sleep_hours"`
	RHR              *float64 `json:"rhr"`
	Stress           *float64 `json:"stress"`
	FrictionHours    float64  `json:"friction_hours"`
	GrowthHours      float64  `json:"growth_hours"`
	AbundanceHours   float64  `json:"abundance_hours"`
	ConsumptionHours float64  `json:"consumption_hours"`
	Flag             Flag     `json:"flag"`
}

// Trend builds one row per day for the last days days, oldest first.
func (r *Reporter) Trend(today time.Time, days int) ([]TrendRow, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}

	rows := make([]TrendRow, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := models.AddDays(today, -i)
		row, err := r.trendRow(day)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Reporter) trendRow(day time.Time) (TrendRow, error) {
	latest := func(kind models.MetricKind) (models.Reading, error) {
		reading, err := r.store.LatestOn(kind, day)
		if err != nil {
			return models.None(), fmt.Errorf("read %s: %w", kind, err)
		}
		return reading, nil
	}

	score, err := latest(models.MetricSleepScore)
	if err != nil {
		return TrendRow{}, err
	}
	sleep, err := latest(models.MetricSleepTotalMin)
	if err != nil {
		return TrendRow{}, err
	}
	rhr, err := latest(models.MetricRHRAvg)
	if err != nil {
		return TrendRow{}, err
	}
	stress, err := latest(models.MetricStressAvg)
	if err != nil {
		return TrendRow{}, err
	}

	row := TrendRow{
		Date:       models.DayKey(day),
		SleepScore: score.Ptr(),
		RHR:        rhr.Ptr(),
		Stress:     stress.Ptr(),
	}
	if sleep.OK {
		h := sleep.Value / 60
		row.SleepHours = &h
	}

	events, err := r.eventsIn(day, models.AddDays(day, 1))
	if err != nil {
		return TrendRow{}, err
	}
	for _, e := range events {
		h := float64(e.DurationMinutes) / 60
		switch e.KeyState {
		case models.KeyStateInternalFriction:
			row.FrictionHours += h
		case models.KeyStateGrowth:
			row.GrowthHours += h
		case models.KeyStateAbundance:
			row.AbundanceHours += h
		case models.KeyStateConsumption:
			row.ConsumptionHours += h
		case models.KeyStateRoutine:
		}
	}

	switch {
	case score.OK && score.Value < trendLowSleepScore:
		row.Flag = FlagLowSleep
	case rhr.OrZero() > trendRHRBaseline+trendRHRMargin:
		row.Flag = FlagHighRHR
	case row.FrictionHours > trendFrictionHours:
		row.Flag = FlagFriction
	}
	return row, nil
}
