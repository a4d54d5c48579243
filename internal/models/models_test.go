package models

import (
	"testing"
	"time"

	"github.com/zulandar/cadence/internal/recurrence"
)

func TestCeremonyTypeValid(t *testing.T) {
	if !CeremonySprintPlanning.Valid() {
		t.Error("sprint_planning should be valid")
	}
	if CeremonyType("standup_jamboree").Valid() {
		t.Error("unknown ceremony should be invalid")
	}
}

func TestCeremonyPriority(t *testing.T) {
	cases := []struct {
		ceremony CeremonyType
		want     string
	}{
		{CeremonyPIPlanning, PriorityHigh},
		{CeremonyInspectAdapt, PriorityHigh},
		{CeremonySprintPlanning, PriorityMedium},
		{CeremonySystemDemo, PriorityMedium},
		{CeremonyDailyStandup, PriorityLow},
		{CeremonyPOSync, PriorityLow},
	}
	for _, c := range cases {
		if got := c.ceremony.Priority(); got != c.want {
			t.Errorf("%s priority = %q, want %q", c.ceremony, got, c.want)
		}
	}
}

func TestIdentityKey(t *testing.T) {
	id := ReminderIdentity{SourceID: "ev-1", OccurrenceIndex: 3, OffsetMinutes: 15}
	if got := id.Key(); got != "ev-1/3/15" {
		t.Errorf("key = %q, want %q", got, "ev-1/3/15")
	}
	// Distinct offsets are distinct identities.
	other := ReminderIdentity{SourceID: "ev-1", OccurrenceIndex: 3, OffsetMinutes: 60}
	if id.Key() == other.Key() {
		t.Error("identities with different offsets must have different keys")
	}
}

func TestEventPattern(t *testing.T) {
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ev := &CalendarEvent{
		ID:            "ev-1",
		Recurring:     true,
		Frequency:     "weekly",
		Interval:      2,
		DaysOfWeek:    "[2,4]",
		RecurrenceEnd: &end,
	}
	p, err := ev.Pattern()
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	if p.Frequency != recurrence.FreqWeekly || p.Interval != 2 {
		t.Errorf("pattern = %+v", p)
	}
	if len(p.DaysOfWeek) != 2 || p.DaysOfWeek[0] != time.Tuesday || p.DaysOfWeek[1] != time.Thursday {
		t.Errorf("daysOfWeek = %v", p.DaysOfWeek)
	}
}

func TestEventPatternOneOff(t *testing.T) {
	ev := &CalendarEvent{ID: "ev-1"}
	p, err := ev.Pattern()
	if err != nil || p != nil {
		t.Fatalf("pattern = %v, %v, want nil, nil", p, err)
	}
}

func TestEventPatternInvalid(t *testing.T) {
	ev := &CalendarEvent{ID: "ev-1", Recurring: true, Frequency: "weekly", Interval: 0}
	if _, err := ev.Pattern(); err == nil {
		t.Fatal("expected error for zero interval")
	}
}

func TestEventOffsets(t *testing.T) {
	ev := &CalendarEvent{ID: "ev-1", ReminderOffsets: "[60,15,15,1440]"}
	got, err := ev.Offsets()
	if err != nil {
		t.Fatalf("offsets: %v", err)
	}
	want := []int{15, 60, 1440}
	if len(got) != len(want) {
		t.Fatalf("offsets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("offsets = %v, want %v", got, want)
		}
	}
}

func TestEventOffsetsRejectNonPositive(t *testing.T) {
	ev := &CalendarEvent{ID: "ev-1", ReminderOffsets: "[15,0]"}
	if _, err := ev.Offsets(); err == nil {
		t.Fatal("expected error for zero offset")
	}
	ev.ReminderOffsets = "[-30]"
	if _, err := ev.Offsets(); err == nil {
		t.Fatal("expected error for negative offset")
	}
}

func TestEventOffsetsEmpty(t *testing.T) {
	ev := &CalendarEvent{ID: "ev-1"}
	got, err := ev.Offsets()
	if err != nil || got != nil {
		t.Fatalf("offsets = %v, %v, want nil, nil", got, err)
	}
}

func TestSettingsCategoryToggle(t *testing.T) {
	s := DefaultSettings()
	if !s.CategoryEnabled(CategoryCeremony) {
		t.Fatal("ceremony should start enabled")
	}
	if err := s.SetCategory(CategoryCeremony, false); err != nil {
		t.Fatalf("set category: %v", err)
	}
	if s.CategoryEnabled(CategoryCeremony) {
		t.Error("ceremony should be disabled after toggle")
	}
	if !s.CategoryEnabled(CategoryTodo) {
		t.Error("todo should be untouched")
	}
}

func TestSettingsUnknownCategoryDefaultsEnabled(t *testing.T) {
	s := DefaultSettings()
	if !s.CategoryEnabled("somenewcategory") {
		t.Error("unknown categories should default to enabled")
	}
	empty := NotificationSettings{}
	if !empty.CategoryEnabled(CategoryCeremony) {
		t.Error("empty categories column should default to enabled")
	}
}

func TestEncodeDecodeRoundTrips(t *testing.T) {
	if got := EncodeInts(nil); got != "" {
		t.Errorf("EncodeInts(nil) = %q, want empty", got)
	}
	if got := EncodeStrings([]string{"a", "b"}); got != `["a","b"]` {
		t.Errorf("EncodeStrings = %q", got)
	}
	if got := DecodeStrings(`["x","y"]`); len(got) != 2 || got[0] != "x" {
		t.Errorf("DecodeStrings = %v", got)
	}
	days, err := DecodeWeekdays("[0,6]")
	if err != nil {
		t.Fatalf("decode weekdays: %v", err)
	}
	if len(days) != 2 || days[0] != time.Sunday || days[1] != time.Saturday {
		t.Errorf("weekdays = %v", days)
	}
}
