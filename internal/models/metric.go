// ABOUTME: MetricSample model and MetricKind enum for physiological signals.
// ABOUTME: Covers sleep, heart rate, stress, steps and workout load metrics.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MetricKind identifies the physiological signal a sample measures.
type MetricKind string

const (
	// Sleep
	MetricSleepTotalMin MetricKind = "sleep_total_min"
	MetricSleepScore    MetricKind = "sleep_score"
	MetricSleepDeepMin  MetricKind = "sleep_deep_min"

	// Heart and stress
	MetricRHRAvg       MetricKind = "rhr_avg"
	MetricHeartRateAvg MetricKind = "heart_rate_avg"
	MetricStressAvg    MetricKind = "stress_avg"

	// Daily activity
	MetricStepsTotal    MetricKind = "steps_total"
	MetricCaloriesTotal MetricKind = "calories_total"

	// Workouts
	MetricWorkoutTrainLoad    MetricKind = "workout_train_load"
	MetricWorkoutAerobicMin   MetricKind = "workout_aerobic_min"
	MetricWorkoutAnaerobicMin MetricKind = "workout_anaerobic_min"
	MetricWorkoutExtremeMin   MetricKind = "workout_extreme_min"
	MetricWorkoutDurationMin  MetricKind = "workout_duration_min"
	MetricWorkoutCalories     MetricKind = "workout_calories"
	MetricWorkoutAvgHRM       MetricKind = "workout_avg_hrm"
)

// MetricUnits maps metric kinds to their display units.
var MetricUnits = map[MetricKind]string{
	MetricSleepTotalMin:       "min",
	MetricSleepScore:          "score",
	MetricSleepDeepMin:        "min",
	MetricRHRAvg:              "bpm",
	MetricHeartRateAvg:        "bpm",
	MetricStressAvg:           "score",
	MetricStepsTotal:          "steps",
	MetricCaloriesTotal:       "kcal",
	MetricWorkoutTrainLoad:    "load",
	MetricWorkoutAerobicMin:   "min",
	MetricWorkoutAnaerobicMin: "min",
	MetricWorkoutExtremeMin:   "min",
	MetricWorkoutDurationMin:  "min",
	MetricWorkoutCalories:     "kcal",
	MetricWorkoutAvgHRM:       "bpm",
}

// AllMetricKinds lists every valid metric kind in display order.
var AllMetricKinds = []MetricKind{
	MetricSleepTotalMin, MetricSleepScore, MetricSleepDeepMin,
	MetricRHRAvg, MetricHeartRateAvg, MetricStressAvg,
	MetricStepsTotal, MetricCaloriesTotal,
	MetricWorkoutTrainLoad, MetricWorkoutAerobicMin, MetricWorkoutAnaerobicMin,
	MetricWorkoutExtremeMin, MetricWorkoutDurationMin, MetricWorkoutCalories,
	MetricWorkoutAvgHRM,
}

// IsValidMetricKind checks if a string is a known metric kind.
func IsValidMetricKind(s string) bool {
	_, ok := MetricUnits[MetricKind(s)]
	return ok
}

// ParseMetricKind converts a string into a MetricKind, rejecting unknown kinds.
func ParseMetricKind(s string) (MetricKind, error) {
	if !IsValidMetricKind(s) {
		return "", fmt.Errorf("unknown metric kind: %s", s)
	}
	return MetricKind(s), nil
}

// SourceManual marks samples entered by hand.
const SourceManual = "manual"

// MetricSample is a single time-stamped scalar measurement.
type MetricSample struct {
	ID         uuid.UUID  `json:"id" yaml:"id"`
	Kind       MetricKind `json:"kind" yaml:"kind"`
	Value      float64    `json:"value" yaml:"value"`
	RecordedAt time.Time  `json:"recorded_at" yaml:"recorded_at"`
	Source     string     `json:"source" yaml:"source"`
	Raw        *string    `json:"raw,omitempty" yaml:"raw,omitempty"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
}

// NewMetricSample creates a sample with a generated UUID and current timestamp.
func NewMetricSample(kind MetricKind, value float64) *MetricSample {
	now := time.Now()
	return &MetricSample{
		ID:         uuid.New(),
		Kind:       kind,
		Value:      value,
		RecordedAt: now,
		Source:     SourceManual,
		CreatedAt:  now,
	}
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (m *MetricSample) WithRecordedAt(t time.Time) *MetricSample {
	m.RecordedAt = t
	return m
}

// WithSource sets where the sample came from.
func (m *MetricSample) WithSource(source string) *MetricSample {
	m.Source = source
	return m
}

// WithRaw keeps the original payload the value was extracted from.
func (m *MetricSample) WithRaw(raw string) *MetricSample {
	m.Raw = &raw
	return m
}

// Unit returns the display unit for the sample's kind.
func (m *MetricSample) Unit() string {
	return MetricUnits[m.Kind]
}

// Valid reports whether the value counts as a measurement.
// Values at or below zero are the "not measured" sentinel.
func (m *MetricSample) Valid() bool {
	return m.Value > 0
}
