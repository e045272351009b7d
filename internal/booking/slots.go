package booking

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Interval is a half-open [Start, End) span in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && iv.End > other.Start
}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	return nil
}

// ParseClock converts an HH:MM time of day to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as zero-padded HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AvailableStartTimes generates the candidate grid from openHour to
// closeHour stepped by step minutes, drops candidates that would run past
// closing, then drops candidates whose [start, start+duration) overlaps
// any busy interval. Results are in chronological order.
//
// The grid step is fixed regardless of service duration; correctness
// against mixed-length appointments comes from the interval overlap test,
// not from slot equality.
func AvailableStartTimes(openHour, closeHour, step, duration int, busy []Interval) []string {
	closing := closeHour * 60

	var slots []string
	for start := openHour * 60; start < closing; start += step {
		end := start + duration
		if end > closing {
			continue
		}
		candidate := Interval{Start: start, End: end}
		if overlapsAny(candidate, busy) {
			continue
		}
		slots = append(slots, FormatClock(start))
	}
	return slots
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
