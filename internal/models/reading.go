// ABOUTME: Reading is an optional numeric value returned by store aggregations.
// ABOUTME: Distinguishes "no data" from a measured zero.
package models

import (
	"fmt"
	"time"
)

// Reading is the result of a metric query. OK is false when nothing was measured.
type Reading struct {
	Value float64
	OK    bool
}

// Some wraps a measured value.
func Some(v float64) Reading {
	return Reading{Value: v, OK: true}
}

// None is the absent reading.
func None() Reading {
	return Reading{}
}

// OrZero collapses an absent reading to 0.
func (r Reading) OrZero() float64 {
	return r.Or(0)
}

// Or returns the value, or def when absent.
func (r Reading) Or(def float64) float64 {
	if !r.OK {
		return def
	}
	return r.Value
}

// Ptr returns nil for an absent reading, for JSON output.
func (r Reading) Ptr() *float64 {
	if !r.OK {
		return nil
	}
	v := r.Value
	return &v
}

// DayLayout is the calendar day key format used for day-scoped queries.
const DayLayout = "2006-01-02"

// DayKey returns the calendar day of t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays shifts a day by n calendar days.
func AddDays(day time.Time, n int) time.Time {
	return StartOfDay(day).AddDate(0, 0, n)
}

// ParseDay parses "today", "yesterday" or a YYYY-MM-DD date relative to now.
// An empty string means today.
func ParseDay(s string, now time.Time) (time.Time, error) {
	switch s {
	case "", "today":
		return StartOfDay(now), nil
	case "yesterday":
		return AddDays(now, -1), nil
	}
	d, err := time.ParseInLocation(DayLayout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD, today or yesterday", s)
	}
	return d, nil
}

// ParseTimestamp accepts RFC3339 or "YYYY-MM-DD HH:MM" in local time.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: use RFC3339 or YYYY-MM-DD HH:MM", s)
}
