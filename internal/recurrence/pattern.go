// Package recurrence expands recurring-event patterns into concrete
// occurrences inside a query window. Expansion is pure: identical inputs
// always produce identical output, and nothing here reads the wall clock.
package recurrence

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Frequency is the unit a pattern repeats in.
type Frequency string

const (
	FreqDaily     Frequency = "daily"
	FreqWeekly    Frequency = "weekly"
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
)

// ErrInvalidPattern is wrapped by all pattern validation failures.
var ErrInvalidPattern = errors.New("invalid recurrence pattern")

// Pattern describes how an event repeats. A pattern terminates by EndDate
// (exclusive) or by Occurrences (max count), never both; with neither set it
// is unbounded and expansion is limited by the query window.
type Pattern struct {
	Frequency  Frequency
	Interval   int            // every N units; must be positive
	DaysOfWeek []time.Weekday // weekly only; empty defaults to the base start's weekday
	DayOfMonth int            // monthly only; clamped to the month's last day

	EndDate     *time.Time // exclusive upper bound
	Occurrences int        // max total occurrences computed from the base
}

// Validate rejects ambiguous or impossible patterns. Invalid configuration is
// an error at construction, never silently corrected.
func (p *Pattern) Validate() error {
	switch p.Frequency {
	case FreqDaily, FreqWeekly, FreqMonthly, FreqQuarterly:
	default:
		return fmt.Errorf("recurrence: unknown frequency %q: %w", p.Frequency, ErrInvalidPattern)
	}
	if p.Interval <= 0 {
		return fmt.Errorf("recurrence: interval %d must be positive: %w", p.Interval, ErrInvalidPattern)
	}
	if p.EndDate != nil && p.Occurrences > 0 {
		return fmt.Errorf("recurrence: endDate and occurrences are mutually exclusive: %w", ErrInvalidPattern)
	}
	if p.Occurrences < 0 {
		return fmt.Errorf("recurrence: occurrences %d must not be negative: %w", p.Occurrences, ErrInvalidPattern)
	}
	if p.DayOfMonth != 0 && (p.DayOfMonth < 1 || p.DayOfMonth > 31) {
		return fmt.Errorf("recurrence: dayOfMonth %d out of range 1-31: %w", p.DayOfMonth, ErrInvalidPattern)
	}
	for _, d := range p.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("recurrence: weekday %d out of range: %w", int(d), ErrInvalidPattern)
		}
	}
	return nil
}

// weekdays returns the sorted weekday set for a weekly pattern, defaulting to
// the base start's weekday when the set is empty.
func (p *Pattern) weekdays(baseStart time.Time) []time.Weekday {
	if len(p.DaysOfWeek) == 0 {
		return []time.Weekday{baseStart.Weekday()}
	}
	days := make([]time.Weekday, 0, len(p.DaysOfWeek))
	seen := make(map[time.Weekday]bool, len(p.DaysOfWeek))
	for _, d := range p.DaysOfWeek {
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}
