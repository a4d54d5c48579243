package recurrence

import (
	"fmt"
	"time"
)

// maxComputedOccurrences caps how many occurrences a single event may compute
// during one expansion, bounding unbounded daily rules over huge windows.
const maxComputedOccurrences = 5000

// Occurrence is one concrete instance of an event. Index counts every
// computed occurrence from the base, including those before the window, so
// the (SourceID, Index) pair is stable across different query windows.
type Occurrence struct {
	SourceID string
	Index    int
	Start    time.Time
	End      time.Time
}

// Expand computes the occurrences of an event inside [windowStart, windowEnd).
// A nil pattern means a one-off event: its single occurrence is returned iff
// its start falls inside the window. For recurring events the base event's
// duration is preserved on every occurrence, and expansion stops at the first
// of: window end reached, pattern end date reached (exclusive), or the
// pattern's occurrence count exhausted.
func Expand(sourceID string, baseStart, baseEnd time.Time, p *Pattern, windowStart, windowEnd time.Time) ([]Occurrence, error) {
	if !baseEnd.After(baseStart) {
		return nil, fmt.Errorf("recurrence: event end must be after start: %w", ErrInvalidPattern)
	}
	if windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("recurrence: window end before window start: %w", ErrInvalidPattern)
	}

	if p == nil {
		if inWindow(baseStart, windowStart, windowEnd) {
			return []Occurrence{{SourceID: sourceID, Index: 0, Start: baseStart, End: baseEnd}}, nil
		}
		return nil, nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	duration := baseEnd.Sub(baseStart)
	var out []Occurrence
	computed := 0

	emit := func(start time.Time) (done bool) {
		if !start.Before(windowEnd) {
			return true
		}
		if p.EndDate != nil && !start.Before(*p.EndDate) {
			return true
		}
		computed++
		if inWindow(start, windowStart, windowEnd) {
			out = append(out, Occurrence{
				SourceID: sourceID,
				Index:    computed - 1,
				Start:    start,
				End:      start.Add(duration),
			})
		}
		if p.Occurrences > 0 && computed >= p.Occurrences {
			return true
		}
		return computed >= maxComputedOccurrences
	}

	switch p.Frequency {
	case FreqDaily:
		for step := 0; ; step++ {
			if emit(baseStart.AddDate(0, 0, step*p.Interval)) {
				break
			}
		}

	case FreqWeekly:
		days := p.weekdays(baseStart)
		// Anchor each step at the Sunday of the week containing the stepped
		// base date, then place one occurrence per matching weekday at the
		// base start's time of day. Occurrences before the base itself
		// (earlier weekdays in the first week) are not part of the series.
	weekly:
		for step := 0; ; step++ {
			weekAnchor := baseStart.AddDate(0, 0, 7*step*p.Interval)
			sunday := weekAnchor.AddDate(0, 0, -int(weekAnchor.Weekday()))
			for _, wd := range days {
				start := sunday.AddDate(0, 0, int(wd))
				if start.Before(baseStart) {
					continue
				}
				if emit(start) {
					break weekly
				}
			}
		}

	case FreqMonthly, FreqQuarterly:
		monthsPerStep := p.Interval
		if p.Frequency == FreqQuarterly {
			monthsPerStep *= 3
		}
		day := p.DayOfMonth
		if p.Frequency != FreqMonthly || day == 0 {
			day = baseStart.Day()
		}
		// A day-of-month earlier than the base start's day would land before
		// the base itself in the first month; like the weekly branch, starts
		// before the base are not part of the series.
		for step := 0; ; step++ {
			start := monthlyStart(baseStart, step*monthsPerStep, day)
			if start.Before(baseStart) {
				continue
			}
			if emit(start) {
				break
			}
		}
	}

	return out, nil
}

// inWindow reports whether start falls inside [windowStart, windowEnd).
func inWindow(start, windowStart, windowEnd time.Time) bool {
	return !start.Before(windowStart) && start.Before(windowEnd)
}

// monthlyStart returns the occurrence start monthsAhead months after the
// base, on the given day of month clamped to that month's length (a day-31
// rule in a 30-day month lands on day 30, it never skips the month).
func monthlyStart(base time.Time, monthsAhead, day int) time.Time {
	year, month, _ := base.Date()
	// Normalize via a day-1 anchor so AddDate can't roll over short months.
	anchor := time.Date(year, month, 1, base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
	anchor = anchor.AddDate(0, monthsAhead, 0)
	if last := daysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	return time.Date(anchor.Year(), anchor.Month(), day, base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
