// ABOUTME: Sleep and exercise recommendations derived from recent metrics and events.
// ABOUTME: Each recommendation names the rule that produced it.
package energy

import (
	"fmt"
	"time"

	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

// Recommendation is a single piece of advice and the rule behind it.
type Recommendation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

const (
	sleepWindowDays   = 7
	sleepMinSamples   = 3
	sleepTargetHours  = 7.5
	lowSleepScore     = 70.0
	frictionLimitMins = 120
)

// Recommender produces sleep and exercise advice.
type Recommender struct {
	metrics MetricReader
	events  EventReader
}

// NewRecommender creates a recommender over metric and event stores.
func NewRecommender(metrics MetricReader, events EventReader) *Recommender {
	return &Recommender{metrics: metrics, events: events}
}

// Sleep looks at total sleep over the last week up to and including today.
func (r *Recommender) Sleep(today time.Time) (Recommendation, error) {
	today = models.StartOfDay(today)
	from := models.AddDays(today, -sleepWindowDays)
	to := models.AddDays(today, 1)

	n, err := r.metrics.Count(models.MetricSleepTotalMin, from, to)
	if err != nil {
		return Recommendation{}, fmt.Errorf("count sleep samples: %w", err)
	}
	if n < sleepMinSamples {
		return Recommendation{
			Rule:    "insufficient_data",
			Message: fmt.Sprintf("Not enough sleep data yet (fewer than %d days) to recommend anything.", sleepMinSamples),
		}, nil
	}

	avg, err := r.metrics.Average(models.MetricSleepTotalMin, from, to)
	if err != nil {
		return Recommendation{}, fmt.Errorf("average sleep: %w", err)
	}
	hours := avg.OrZero() / 60

	msg := fmt.Sprintf("Over the past %d days you slept %.1f hours on average. ", sleepWindowDays, hours)
	if hours < sleepTargetHours {
		return Recommendation{
			Rule:    "below_target",
			Message: msg + "That is below the recommended 8 hours. Try going to bed 30 minutes earlier tonight.",
		}, nil
	}
	return Recommendation{
		Rule:    "on_target",
		Message: msg + "Well done, keep it up!",
	}, nil
}

// Exercise looks at yesterday's recovery signals and friction time.
// The first matching rule wins.
func (r *Recommender) Exercise(today time.Time) (Recommendation, error) {
	today = models.StartOfDay(today)
	yesterday := models.AddDays(today, -1)

	score, err := r.metrics.LatestOn(models.MetricSleepScore, yesterday)
	if err != nil {
		return Recommendation{}, fmt.Errorf("read sleep score: %w", err)
	}
	if s := score.OrZero(); s > 0 && s < lowSleepScore {
		return Recommendation{
			Rule:    "low_sleep_score",
			Message: fmt.Sprintf("Yesterday's sleep score was low (%.0f). Stick to light activity such as a 20-minute walk or stretching, and avoid high intensity.", s),
		}, nil
	}

	rhr, err := r.metrics.LatestOn(models.MetricRHRAvg, yesterday)
	if err != nil {
		return Recommendation{}, fmt.Errorf("read resting heart rate: %w", err)
	}
	avg, err := r.metrics.Average(models.MetricRHRAvg, models.AddDays(today, -8), yesterday)
	if err != nil {
		return Recommendation{}, fmt.Errorf("read heart rate baseline: %w", err)
	}
	baseline := avg.Or(rhr.Or(DefaultRHRBaseline))
	if v := rhr.OrZero(); v > 0 && v > baseline+rhrMargin {
		return Recommendation{
			Rule:    "elevated_rhr",
			Message: fmt.Sprintf("Yesterday's resting heart rate (%.0f) was above your baseline (%.0f). Rest today or keep activity light.", v, baseline),
		}, nil
	}

	friction, err := r.frictionMinutes(yesterday)
	if err != nil {
		return Recommendation{}, err
	}
	if friction > frictionLimitMins {
		return Recommendation{
			Rule:    "mental_fatigue",
			Message: fmt.Sprintf("Yesterday had %.1f hours of internal friction. A recovery activity like yoga or a walk will help clear your head.", float64(friction)/60),
		}, nil
	}

	return Recommendation{
		Rule:    "recovered",
		Message: "You recovered well. Today is a good day for moderate or high intensity training.",
	}, nil
}

func (r *Recommender) frictionMinutes(day time.Time) (int, error) {
	state := models.KeyStateInternalFriction
	events, err := r.events.ListEvents(storage.EventFilter{
		From:     day,
		To:       models.AddDays(day, 1),
		KeyState: &state,
	})
	if err != nil {
		return 0, fmt.Errorf("list friction events: %w", err)
	}
	total := 0
	for _, e := range events {
		total += e.DurationMinutes
	}
	return total, nil
}
