// ABOUTME: Readiness assessment: classifies a day's physiology from metric signals.
// ABOUTME: The cascade is a fixed rule table applied in order by a small interpreter.
package energy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/energy/internal/models"
)

// State is the readiness classification for a day.
type State int

const (
	StateReady State = iota
	StateFatigued
	StateStressed
	StateNoData
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateFatigued:
		return "Fatigued"
	case StateStressed:
		return "Stressed"
	case StateNoData:
		return "No Data"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalJSON writes the state name.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Depleted reports whether the state calls for recovery before work.
func (s State) Depleted() bool {
	return s == StateFatigued || s == StateStressed
}

// Signal defaults and thresholds.
const (
	DefaultRHRBaseline = 60.0

	lowSleepHours  = 7.0
	rhrMargin      = 4.0
	highStress     = 40.0
	highTrainLoad  = 120.0
	baselineDays   = 7
	trainLoadDays  = 3
	warningPrefix  = "Warning: "
	allClearPrefix = "Data: "
)

// Signals are the five inputs of the cascade. Absent data is 0, except the
// baseline which falls back to DefaultRHRBaseline.
type Signals struct {
	SleepHours   float64 `json:"sleep_hours"`
	LatestRHR    float64 `json:"latest_rhr"`
	RHRBaseline  float64 `json:"rhr_baseline"`
	LatestStress float64 `json:"latest_stress"`
	AvgTrainLoad float64 `json:"avg_train_load"`
}

// Assessment is the derived readiness of one day.
type Assessment struct {
	Date  string `json:"date"`
	State State  `json:"state"`
	Signals
	Messages []string `json:"messages"`
}

// Warnings returns only the warning messages.
func (a Assessment) Warnings() []string {
	var out []string
	for _, m := range a.Messages {
		if strings.HasPrefix(m, warningPrefix) {
			out = append(out, m)
		}
	}
	return out
}

type rule struct {
	name    string
	when    func(Signals) bool
	state   State
	message func(Signals) string
}

// cascade is applied top to bottom. Later matches overwrite the state and
// every match appends its message.
var cascade = []rule{
	{
		name:  "low_sleep",
		when:  func(s Signals) bool { return s.SleepHours > 0 && s.SleepHours < lowSleepHours },
		state: StateFatigued,
		message: func(s Signals) string {
			return fmt.Sprintf("%snot enough sleep (%.1f hours). Physical reserves are low.", warningPrefix, s.SleepHours)
		},
	},
	{
		name: "elevated_rhr",
		when: func(s Signals) bool {
			return s.LatestRHR > 0 && s.RHRBaseline > 0 && s.LatestRHR > s.RHRBaseline+rhrMargin
		},
		state: StateStressed,
		message: func(s Signals) string {
			return fmt.Sprintf("%sresting heart rate (%.0f bpm) is above your baseline (%.0f bpm). Your body has not fully recovered.",
				warningPrefix, s.LatestRHR, s.RHRBaseline)
		},
	},
	{
		name:  "high_stress",
		when:  func(s Signals) bool { return s.LatestStress > highStress },
		state: StateStressed,
		message: func(s Signals) string {
			return fmt.Sprintf("%saverage stress is high (%.0f). Emotional energy is low.", warningPrefix, s.LatestStress)
		},
	},
	{
		name:  "high_train_load",
		when:  func(s Signals) bool { return s.AvgTrainLoad > highTrainLoad },
		state: StateFatigued,
		message: func(s Signals) string {
			return fmt.Sprintf("%s3-day average training load is too high (%.0f). Your body is tired even if sleep was fine.",
				warningPrefix, s.AvgTrainLoad)
		},
	},
}

// RuleNames lists the cascade rules in evaluation order.
func RuleNames() []string {
	names := make([]string, len(cascade))
	for i, r := range cascade {
		names[i] = r.name
	}
	return names
}

// Evaluate runs the cascade over already-gathered signals.
//
// A Ready day with no sleep but a resting heart rate gets no message, and the
// no-data branch also fires when only the stress rule matched. Both are kept
// as-is.
func Evaluate(day time.Time, s Signals) Assessment {
	a := Assessment{
		Date:     models.DayKey(day),
		State:    StateReady,
		Signals:  s,
		Messages: []string{},
	}

	for _, r := range cascade {
		if r.when(s) {
			a.State = r.state
			a.Messages = append(a.Messages, r.message(s))
		}
	}

	switch {
	case a.State == StateReady && s.SleepHours > 0:
		a.Messages = append(a.Messages, allClearPrefix+"sleep is sufficient and heart rate is normal. Energy reserves look good.")
	case s.SleepHours == 0 && s.LatestRHR == 0:
		a.State = StateNoData
		a.Messages = append(a.Messages, warningPrefix+"no objective health data for this day.")
	}
	return a
}

// Assessor derives an Assessment from stored metrics.
type Assessor struct {
	metrics MetricReader
}

// NewAssessor creates an assessor over a metric store.
func NewAssessor(metrics MetricReader) *Assessor {
	return &Assessor{metrics: metrics}
}

// Gather reads the five cascade inputs for day.
func (a *Assessor) Gather(day time.Time) (Signals, error) {
	day = models.StartOfDay(day)

	sleep, err := a.metrics.LatestOn(models.MetricSleepTotalMin, day)
	if err != nil {
		return Signals{}, fmt.Errorf("read sleep: %w", err)
	}
	rhr, err := a.metrics.LatestOn(models.MetricRHRAvg, day)
	if err != nil {
		return Signals{}, fmt.Errorf("read resting heart rate: %w", err)
	}
	baseline, err := a.metrics.Average(models.MetricRHRAvg, models.AddDays(day, -baselineDays), day)
	if err != nil {
		return Signals{}, fmt.Errorf("read heart rate baseline: %w", err)
	}
	stress, err := a.metrics.LatestOn(models.MetricStressAvg, day)
	if err != nil {
		return Signals{}, fmt.Errorf("read stress: %w", err)
	}
	load, err := a.metrics.Average(models.MetricWorkoutTrainLoad, models.AddDays(day, -trainLoadDays), day)
	if err != nil {
		return Signals{}, fmt.Errorf("read training load: %w", err)
	}

	return Signals{
		SleepHours:   sleep.OrZero() / 60,
		LatestRHR:    rhr.OrZero(),
		RHRBaseline:  baseline.Or(DefaultRHRBaseline),
		LatestStress: stress.OrZero(),
		AvgTrainLoad: load.OrZero(),
	}, nil
}

// Assess classifies day. Missing data never errors; only store faults do.
func (a *Assessor) Assess(day time.Time) (Assessment, error) {
	s, err := a.Gather(day)
	if err != nil {
		return Assessment{}, err
	}
	return Evaluate(day, s), nil
}
