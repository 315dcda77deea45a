// ABOUTME: Maps a metric value and a threshold triple onto a colored fill bar.
// ABOUTME: Also holds the per-metric display table used by the weekly report.
package energy

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/harperreed/energy/internal/models"
)

// DefaultBarLength is the number of bar segments when none is given.
const DefaultBarLength = 10

// Band is the color band a value falls into.
type Band int

const (
	BandWhite Band = iota
	BandRed
	BandYellow
	BandGreen
)

func (b Band) String() string {
	switch b {
	case BandRed:
		return "red"
	case BandYellow:
		return "yellow"
	case BandGreen:
		return "green"
	default:
		return "white"
	}
}

// MarshalJSON writes the band name.
func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// Thresholds is (T1, T2, Ref). T1 < T2 means higher is better; otherwise
// lower is better. Ref is the 100% point for higher-is-better bars.
type Thresholds struct {
	T1  float64 `json:"t1"`
	T2  float64 `json:"t2"`
	Ref float64 `json:"ref"`
}

// HigherIsBetter reports the direction of the triple.
func (t Thresholds) HigherIsBetter() bool {
	return t.T1 < t.T2
}

// Indicator is the rendered state of one value against its thresholds.
type Indicator struct {
	Fill   float64 `json:"fill"`
	Band   Band    `json:"band"`
	Filled int     `json:"filled"`
	Empty  int     `json:"empty"`
}

// Bar renders the indicator as filled and empty block characters.
func (i Indicator) Bar() string {
	return strings.Repeat("█", i.Filled) + strings.Repeat("░", i.Empty)
}

// Indicate computes fill ratio, color band and segment counts for r.
func Indicate(r models.Reading, th Thresholds, barLength int) Indicator {
	if barLength <= 0 {
		barLength = DefaultBarLength
	}
	if !r.OK {
		return Indicator{Band: BandWhite, Empty: barLength}
	}

	v := r.Value
	var ref float64
	var band Band

	if th.HigherIsBetter() {
		ref = th.Ref
		if ref <= 0 {
			ref = th.T2
		}
		switch {
		case v >= th.T2:
			band = BandGreen
		case v >= th.T1:
			band = BandYellow
		default:
			band = BandRed
		}
	} else {
		ref = th.T1
		if ref <= 0 {
			ref = 1
		}
		switch {
		case v <= th.T2:
			band = BandGreen
		case v <= th.T1:
			band = BandYellow
		default:
			band = BandRed
		}
	}

	fill := math.Max(0, math.Min(1, v/ref))
	filled := int(math.Round(fill * float64(barLength)))
	return Indicator{
		Fill:   fill,
		Band:   band,
		Filled: filled,
		Empty:  barLength - filled,
	}
}

// Aggregation says how a metric is summarized over a week.
type Aggregation string

const (
	AggAvg Aggregation = "avg"
	AggSum Aggregation = "sum"
)

// MetricGuide describes how to display one metric kind.
type MetricGuide struct {
	Kind        models.MetricKind `json:"kind"`
	Label       string            `json:"label"`
	Agg         Aggregation       `json:"agg"`
	Thresholds  Thresholds        `json:"thresholds"`
	Description string            `json:"description"`
}

// MetricGuides lists the displayed metrics in report order.
var MetricGuides = []MetricGuide{
	{models.MetricSleepScore, "Sleep score", AggAvg, Thresholds{60, 75, 100},
		"Recovery quality. Below 70 badly hurts mental energy."},
	{models.MetricSleepTotalMin, "Total sleep", AggAvg, Thresholds{390, 450, 600},
		"Your physical energy base."},
	{models.MetricRHRAvg, "Resting heart rate", AggAvg, Thresholds{68, 63, 50},
		"Recovery signal. Higher means more strain on the body."},
	{models.MetricWorkoutTrainLoad, "Training load", AggAvg, Thresholds{120, 90, 0},
		"How much you spend. High values need lots of sleep to balance."},
	{models.MetricWorkoutAnaerobicMin, "Anaerobic training", AggSum, Thresholds{60, 40, 0},
		"High-intensity consumption."},
	{models.MetricStressAvg, "Stress level", AggAvg, Thresholds{40, 30, 0},
		"The objective side of internal friction."},
	{models.MetricWorkoutAerobicMin, "Aerobic training", AggSum, Thresholds{1, 30, 150},
		"Moderate-intensity consumption."},
	{models.MetricWorkoutExtremeMin, "Extreme training", AggSum, Thresholds{10, 5, 0},
		"Very high consumption."},
	{models.MetricHeartRateAvg, "All-day heart rate", AggAvg, Thresholds{85, 80, 60},
		"Overall arousal, pushed up by training and stress."},
	{models.MetricSleepDeepMin, "Deep sleep", AggAvg, Thresholds{90, 110, 180},
		"Core physical recovery."},
	{models.MetricStepsTotal, "Daily steps", AggAvg, Thresholds{3000, 5000, 10000},
		"Baseline activity level."},
}

// GuideFor returns the display guide for kind.
func GuideFor(kind models.MetricKind) (MetricGuide, bool) {
	for _, g := range MetricGuides {
		if g.Kind == kind {
			return g, true
		}
	}
	return MetricGuide{}, false
}
