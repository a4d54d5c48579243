package recurrence

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var (
	// Tuesday.
	baseStart = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	baseEnd   = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	farFuture = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
)

func mustExpand(t *testing.T, p *Pattern, wStart, wEnd time.Time) []Occurrence {
	t.Helper()
	occs, err := Expand("ev-1", baseStart, baseEnd, p, wStart, wEnd)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	return occs
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestValidate_RejectsNonPositiveInterval(t *testing.T) {
	p := &Pattern{Frequency: FreqDaily, Interval: 0}
	if err := p.Validate(); !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("error = %v, want ErrInvalidPattern", err)
	}
	p.Interval = -3
	if err := p.Validate(); !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("error = %v, want ErrInvalidPattern", err)
	}
}

func TestValidate_RejectsBothTerminations(t *testing.T) {
	end := baseStart.AddDate(0, 1, 0)
	p := &Pattern{Frequency: FreqDaily, Interval: 1, EndDate: &end, Occurrences: 5}
	if err := p.Validate(); !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("error = %v, want ErrInvalidPattern", err)
	}
}

func TestValidate_RejectsDayOfMonthOutOfRange(t *testing.T) {
	for _, day := range []int{-1, 32, 99} {
		p := &Pattern{Frequency: FreqMonthly, Interval: 1, DayOfMonth: day}
		if err := p.Validate(); !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("dayOfMonth %d: error = %v, want ErrInvalidPattern", day, err)
		}
	}
}

func TestValidate_RejectsUnknownFrequency(t *testing.T) {
	p := &Pattern{Frequency: "yearly", Interval: 1}
	if err := p.Validate(); !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("error = %v, want ErrInvalidPattern", err)
	}
}

func TestExpand_RejectsZeroDurationEvent(t *testing.T) {
	_, err := Expand("ev-1", baseStart, baseStart, nil, baseStart, farFuture)
	if err == nil {
		t.Fatal("expected error for zero-duration event")
	}
}

// ---------------------------------------------------------------------------
// Non-recurring events
// ---------------------------------------------------------------------------

func TestExpand_NonRecurringInsideWindow(t *testing.T) {
	occs := mustExpand(t, nil, baseStart.Add(-time.Hour), baseStart.Add(time.Hour))
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occs))
	}
	if !occs[0].Start.Equal(baseStart) || !occs[0].End.Equal(baseEnd) {
		t.Errorf("occurrence = [%s, %s]", occs[0].Start, occs[0].End)
	}
	if occs[0].Index != 0 {
		t.Errorf("index = %d, want 0", occs[0].Index)
	}
}

func TestExpand_NonRecurringOutsideWindow(t *testing.T) {
	occs := mustExpand(t, nil, baseStart.Add(time.Hour), baseStart.Add(2*time.Hour))
	if len(occs) != 0 {
		t.Fatalf("got %d occurrences, want 0", len(occs))
	}
}

// ---------------------------------------------------------------------------
// Bounding and window correctness
// ---------------------------------------------------------------------------

func TestExpand_OccurrenceCountBoundsExactly(t *testing.T) {
	p := &Pattern{Frequency: FreqDaily, Interval: 1, Occurrences: 7}
	occs := mustExpand(t, p, time.Time{}.AddDate(1, 0, 0), farFuture)
	if len(occs) != 7 {
		t.Fatalf("got %d occurrences, want exactly 7", len(occs))
	}
}

func TestExpand_AllOccurrencesInsideWindow(t *testing.T) {
	p := &Pattern{Frequency: FreqDaily, Interval: 3}
	wStart := baseStart.AddDate(0, 0, 10)
	wEnd := baseStart.AddDate(0, 0, 40)
	for _, o := range mustExpand(t, p, wStart, wEnd) {
		if o.Start.Before(wStart) || !o.Start.Before(wEnd) {
			t.Errorf("occurrence %s outside [%s, %s)", o.Start, wStart, wEnd)
		}
	}
}

func TestExpand_IndexStableAcrossWindows(t *testing.T) {
	p := &Pattern{Frequency: FreqDaily, Interval: 1}

	// Full window: indexes 0..N. Shifted window: the same occurrences must
	// keep the same indexes even though earlier ones are excluded.
	full := mustExpand(t, p, baseStart, baseStart.AddDate(0, 0, 10))
	shifted := mustExpand(t, p, baseStart.AddDate(0, 0, 5), baseStart.AddDate(0, 0, 10))

	byStart := make(map[time.Time]int)
	for _, o := range full {
		byStart[o.Start] = o.Index
	}
	if len(shifted) == 0 {
		t.Fatal("shifted window returned no occurrences")
	}
	for _, o := range shifted {
		if want, ok := byStart[o.Start]; !ok || o.Index != want {
			t.Errorf("occurrence %s index = %d, want %d", o.Start, o.Index, want)
		}
	}
	if shifted[0].Index != 5 {
		t.Errorf("first shifted index = %d, want 5", shifted[0].Index)
	}
}

func TestExpand_EndDateIsExclusive(t *testing.T) {
	end := baseStart.AddDate(0, 0, 3)
	p := &Pattern{Frequency: FreqDaily, Interval: 1, EndDate: &end}
	occs := mustExpand(t, p, baseStart, farFuture)
	// Days 0, 1, 2 — the occurrence exactly at EndDate is excluded.
	if len(occs) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(occs))
	}
}

func TestExpand_Deterministic(t *testing.T) {
	p := &Pattern{Frequency: FreqWeekly, Interval: 2, DaysOfWeek: []time.Weekday{time.Tuesday, time.Thursday}}
	a := mustExpand(t, p, baseStart, baseStart.AddDate(0, 3, 0))
	b := mustExpand(t, p, baseStart, baseStart.AddDate(0, 3, 0))
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different output")
	}
}

// ---------------------------------------------------------------------------
// Weekly
// ---------------------------------------------------------------------------

func TestExpand_BiweeklyTuesdayScenario(t *testing.T) {
	// Sprint Planning: 2024-01-02T09:00Z, weekly, interval=2, Tuesdays,
	// ends 2024-03-01. January holds three 14-day steps: Jan 2, 16, 30.
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := &Pattern{
		Frequency:  FreqWeekly,
		Interval:   2,
		DaysOfWeek: []time.Weekday{time.Tuesday},
		EndDate:    &end,
	}
	occs := mustExpand(t,
		p,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	want := []time.Time{
		time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 30, 9, 0, 0, 0, time.UTC),
	}
	if len(occs) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %v", len(occs), len(want), occs)
	}
	for i, o := range occs {
		if !o.Start.Equal(want[i]) {
			t.Errorf("occurrence %d = %s, want %s", i, o.Start, want[i])
		}
	}
}

func TestExpand_WeeklyEmptyDaysDefaultsToBaseWeekday(t *testing.T) {
	p := &Pattern{Frequency: FreqWeekly, Interval: 1}
	occs := mustExpand(t, p, baseStart, baseStart.AddDate(0, 0, 22))
	if len(occs) != 4 {
		t.Fatalf("got %d occurrences, want 4", len(occs))
	}
	for _, o := range occs {
		if o.Start.Weekday() != time.Tuesday {
			t.Errorf("occurrence %s is a %s, want Tuesday", o.Start, o.Start.Weekday())
		}
	}
}

func TestExpand_WeeklyMultipleDaysAscendingWithinWeek(t *testing.T) {
	p := &Pattern{Frequency: FreqWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Friday, time.Wednesday}}
	occs := mustExpand(t, p, baseStart, baseStart.AddDate(0, 0, 14))
	if len(occs) < 4 {
		t.Fatalf("got %d occurrences, want at least 4", len(occs))
	}
	for i := 1; i < len(occs); i++ {
		if !occs[i].Start.After(occs[i-1].Start) {
			t.Errorf("occurrences out of order: %s then %s", occs[i-1].Start, occs[i].Start)
		}
	}
	// Base is Tuesday, so the first occurrence is that week's Wednesday.
	if occs[0].Start.Weekday() != time.Wednesday {
		t.Errorf("first occurrence weekday = %s, want Wednesday", occs[0].Start.Weekday())
	}
}

func TestExpand_WeeklySkipsDaysBeforeBase(t *testing.T) {
	// Base is Tuesday; a Monday rule's first fire is the following week.
	p := &Pattern{Frequency: FreqWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Monday}}
	occs := mustExpand(t, p, baseStart.AddDate(0, 0, -7), baseStart.AddDate(0, 0, 10))
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1: %v", len(occs), occs)
	}
	want := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	if !occs[0].Start.Equal(want) {
		t.Errorf("occurrence = %s, want %s", occs[0].Start, want)
	}
}

// ---------------------------------------------------------------------------
// Monthly and quarterly
// ---------------------------------------------------------------------------

func TestExpand_MonthlyClampsToShortMonths(t *testing.T) {
	// Day-31 rule starting in January: February yields its last day, April
	// yields the 30th. The month is clamped, never skipped.
	start := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	p := &Pattern{Frequency: FreqMonthly, Interval: 1, DayOfMonth: 31}
	occs, err := Expand("ev-1", start, start.Add(time.Hour), p,
		start, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}

	want := []time.Time{
		time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC), // leap February
		time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC),
	}
	if len(occs) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %v", len(occs), len(want), occs)
	}
	for i, o := range occs {
		if !o.Start.Equal(want[i]) {
			t.Errorf("occurrence %d = %s, want %s", i, o.Start, want[i])
		}
	}
}

func TestExpand_MonthlyClampNonLeapFebruary(t *testing.T) {
	start := time.Date(2023, 1, 31, 10, 0, 0, 0, time.UTC)
	p := &Pattern{Frequency: FreqMonthly, Interval: 1, DayOfMonth: 31}
	occs, err := Expand("ev-1", start, start.Add(time.Hour), p,
		time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occs))
	}
	want := time.Date(2023, 2, 28, 10, 0, 0, 0, time.UTC)
	if !occs[0].Start.Equal(want) {
		t.Errorf("occurrence = %s, want %s", occs[0].Start, want)
	}
}

func TestExpand_MonthlyDefaultsToBaseDay(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	p := &Pattern{Frequency: FreqMonthly, Interval: 1}
	occs, err := Expand("ev-1", start, start.Add(time.Hour), p,
		start, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occs) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(occs))
	}
	for _, o := range occs {
		if o.Start.Day() != 15 {
			t.Errorf("occurrence %s not on day 15", o.Start)
		}
	}
}

func TestExpand_MonthlySkipsDayBeforeBase(t *testing.T) {
	// Base on the 15th with a day-1 rule: January 1 precedes the base and is
	// not part of the series. The first occurrence is February 1, at index 0.
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	p := &Pattern{Frequency: FreqMonthly, Interval: 1, DayOfMonth: 1}
	occs, err := Expand("ev-1", start, start.Add(time.Hour), p,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1: %v", len(occs), occs)
	}
	want := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	if !occs[0].Start.Equal(want) {
		t.Errorf("occurrence = %s, want %s", occs[0].Start, want)
	}
	if occs[0].Index != 0 {
		t.Errorf("index = %d, want 0", occs[0].Index)
	}
}

func TestExpand_QuarterlyAdvancesThreeMonths(t *testing.T) {
	p := &Pattern{Frequency: FreqQuarterly, Interval: 1}
	occs := mustExpand(t, p, baseStart, baseStart.AddDate(1, 0, 0))
	want := []time.Month{time.January, time.April, time.July, time.October}
	if len(occs) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(occs), len(want))
	}
	for i, o := range occs {
		if o.Start.Month() != want[i] || o.Start.Day() != 2 {
			t.Errorf("occurrence %d = %s, want day 2 of %s", i, o.Start, want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Duration
// ---------------------------------------------------------------------------

func TestExpand_PreservesDuration(t *testing.T) {
	p := &Pattern{Frequency: FreqDaily, Interval: 2}
	dur := baseEnd.Sub(baseStart)
	for _, o := range mustExpand(t, p, baseStart, baseStart.AddDate(0, 1, 0)) {
		if o.End.Sub(o.Start) != dur {
			t.Errorf("occurrence %s duration = %s, want %s", o.Start, o.End.Sub(o.Start), dur)
		}
	}
}
