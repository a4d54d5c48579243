package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/zulandar/cadence/internal/recurrence"
)

// Pattern decodes the event's flattened recurrence columns into a validated
// recurrence.Pattern. Returns nil for one-off events.
func (e *CalendarEvent) Pattern() (*recurrence.Pattern, error) {
	if !e.Recurring {
		return nil, nil
	}
	days, err := DecodeWeekdays(e.DaysOfWeek)
	if err != nil {
		return nil, fmt.Errorf("models: event %s days_of_week: %w", e.ID, err)
	}
	p := &recurrence.Pattern{
		Frequency:   recurrence.Frequency(e.Frequency),
		Interval:    e.Interval,
		DaysOfWeek:  days,
		DayOfMonth:  e.DayOfMonth,
		EndDate:     e.RecurrenceEnd,
		Occurrences: e.MaxOccurrences,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("models: event %s: %w", e.ID, err)
	}
	return p, nil
}

// Offsets decodes ReminderOffsets into a sorted, deduplicated list of
// positive minute offsets. Non-positive offsets are rejected.
func (e *CalendarEvent) Offsets() ([]int, error) {
	if e.ReminderOffsets == "" {
		return nil, nil
	}
	var raw []int
	if err := json.Unmarshal([]byte(e.ReminderOffsets), &raw); err != nil {
		return nil, fmt.Errorf("models: event %s reminder_offsets: %w", e.ID, err)
	}
	seen := make(map[int]bool, len(raw))
	out := make([]int, 0, len(raw))
	for _, m := range raw {
		if m <= 0 {
			return nil, fmt.Errorf("models: event %s reminder offset %d must be positive", e.ID, m)
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Ints(out)
	return out, nil
}

// DecodeWeekdays parses a JSON array of weekday indices (0=Sunday).
func DecodeWeekdays(s string) ([]time.Weekday, error) {
	if s == "" {
		return nil, nil
	}
	var raw []int
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	days := make([]time.Weekday, len(raw))
	for i, d := range raw {
		days[i] = time.Weekday(d)
	}
	return days, nil
}

// EncodeInts marshals an int slice to its JSON column form, empty string for
// an empty slice.
func EncodeInts(v []int) string {
	if len(v) == 0 {
		return ""
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// EncodeStrings marshals a string slice to its JSON column form.
func EncodeStrings(v []string) string {
	if len(v) == 0 {
		return ""
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// DecodeStrings parses a JSON array column into a string slice.
func DecodeStrings(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}
