package event

import (
	"context"
	"testing"
	"time"

	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.CalendarEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db)
}

var (
	start = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC)
)

func TestCreatePersistsEvent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ev, err := Create(ctx, st, CreateOpts{
		Title:           "Sprint Planning",
		Ceremony:        models.CeremonySprintPlanning,
		Start:           start,
		End:             end,
		ReminderOffsets: []int{15, 60},
		Recurring:       true,
		Frequency:       "weekly",
		Interval:        2,
		DaysOfWeek:      []int{2},
		TeamID:          "team-a",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.ID == "" || ev.Status != models.StatusScheduled {
		t.Errorf("event = %+v", ev)
	}

	got, err := st.GetEvent(ctx, ev.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ReminderOffsets != "[15,60]" || got.DaysOfWeek != "[2]" {
		t.Errorf("stored columns = %q, %q", got.ReminderOffsets, got.DaysOfWeek)
	}
	offsets, err := got.Offsets()
	if err != nil || len(offsets) != 2 {
		t.Errorf("offsets = %v, %v", offsets, err)
	}
}

func TestCreateValidation(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		opts CreateOpts
	}{
		{"missing title", CreateOpts{Ceremony: models.CeremonySprintPlanning, Start: start, End: end}},
		{"unknown ceremony", CreateOpts{Title: "X", Ceremony: "jamboree", Start: start, End: end}},
		{"end before start", CreateOpts{Title: "X", Ceremony: models.CeremonySprintPlanning, Start: end, End: start}},
		{"zero duration", CreateOpts{Title: "X", Ceremony: models.CeremonySprintPlanning, Start: start, End: start}},
		{"bad recurrence", CreateOpts{Title: "X", Ceremony: models.CeremonySprintPlanning, Start: start, End: end, Recurring: true, Frequency: "fortnightly", Interval: 1}},
		{"negative offset", CreateOpts{Title: "X", Ceremony: models.CeremonySprintPlanning, Start: start, End: end, ReminderOffsets: []int{-5}}},
	}
	for _, c := range cases {
		if _, err := Create(ctx, st, c.opts); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestTransitionLifecycle(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ev, err := Create(ctx, st, CreateOpts{Title: "Demo", Ceremony: models.CeremonySystemDemo, Start: start, End: end})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := Start(ctx, st, ev.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := Complete(ctx, st, ev.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Completed is terminal.
	if err := Cancel(ctx, st, ev.ID); err == nil {
		t.Error("expected error cancelling a completed event")
	}
	if err := Start(ctx, st, ev.ID); err == nil {
		t.Error("expected error restarting a completed event")
	}

	got, err := st.GetEvent(ctx, ev.ID)
	if err != nil || got.Status != models.StatusCompleted {
		t.Fatalf("status = %v, %v", got, err)
	}
}

func TestCancelFromScheduled(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ev, err := Create(ctx, st, CreateOpts{Title: "Sync", Ceremony: models.CeremonyARTSync, Start: start, End: end})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := Cancel(ctx, st, ev.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Cancelled is terminal too.
	if err := Complete(ctx, st, ev.ID); err == nil {
		t.Error("expected error completing a cancelled event")
	}
}

func TestTransitionMissingEvent(t *testing.T) {
	st := openTestStore(t)
	if err := Cancel(context.Background(), st, "nope"); err == nil {
		t.Fatal("expected error for missing event")
	}
}
