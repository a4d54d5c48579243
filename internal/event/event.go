// Package event provides calendar event lifecycle operations.
package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/store"
)

// CreateOpts holds parameters for creating a new calendar event.
type CreateOpts struct {
	Title       string
	Description string
	Ceremony    models.CeremonyType
	Start       time.Time
	End         time.Time
	Location    string
	IsVirtual   bool
	MeetingLink string
	Organizer   string
	Attendees   []string

	// Recurrence; zero values mean a one-off event.
	Recurring      bool
	Frequency      string
	Interval       int
	DaysOfWeek     []int
	DayOfMonth     int
	RecurrenceEnd  *time.Time
	MaxOccurrences int

	ReminderOffsets []int

	ProgramIncrementID string
	SprintID           string
	ARTID              string
	TeamID             string
	Tags               []string
}

// ValidTransitions maps each event status to its valid next statuses.
var ValidTransitions = map[string][]string{
	models.StatusScheduled:  {models.StatusInProgress, models.StatusCompleted, models.StatusCancelled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted:  {},
	models.StatusCancelled:  {},
}

// Create validates opts and persists a new event with a generated ID.
// Invalid recurrence configuration is rejected here, never silently fixed.
func Create(ctx context.Context, st store.Store, opts CreateOpts) (*models.CalendarEvent, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("event: title is required")
	}
	if !opts.Ceremony.Valid() {
		return nil, fmt.Errorf("event: unknown ceremony type %q", opts.Ceremony)
	}
	if !opts.End.After(opts.Start) {
		return nil, fmt.Errorf("event: end time must be after start time")
	}

	ev := &models.CalendarEvent{
		ID:                 uuid.NewString(),
		Title:              opts.Title,
		Description:        opts.Description,
		Ceremony:           opts.Ceremony,
		StartTime:          opts.Start,
		EndTime:            opts.End,
		Location:           opts.Location,
		IsVirtual:          opts.IsVirtual,
		MeetingLink:        opts.MeetingLink,
		Organizer:          opts.Organizer,
		Attendees:          models.EncodeStrings(opts.Attendees),
		Status:             models.StatusScheduled,
		Recurring:          opts.Recurring,
		Frequency:          opts.Frequency,
		Interval:           opts.Interval,
		DaysOfWeek:         models.EncodeInts(opts.DaysOfWeek),
		DayOfMonth:         opts.DayOfMonth,
		RecurrenceEnd:      opts.RecurrenceEnd,
		MaxOccurrences:     opts.MaxOccurrences,
		ReminderOffsets:    models.EncodeInts(opts.ReminderOffsets),
		ProgramIncrementID: opts.ProgramIncrementID,
		SprintID:           opts.SprintID,
		ARTID:              opts.ARTID,
		TeamID:             opts.TeamID,
		Tags:               models.EncodeStrings(opts.Tags),
	}

	// Round-trip the stored columns through the decoders so malformed
	// recurrence or offsets never reach the database.
	if _, err := ev.Pattern(); err != nil {
		return nil, err
	}
	if _, err := ev.Offsets(); err != nil {
		return nil, err
	}

	if err := st.CreateEvent(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Transition moves an event to a new status, enforcing the lifecycle.
func Transition(ctx context.Context, st store.Store, id, status string) error {
	ev, err := st.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if !isValidTransition(ev.Status, status) {
		return fmt.Errorf("event: invalid transition %s -> %s for %s", ev.Status, status, id)
	}
	return st.UpdateEventStatus(ctx, id, status)
}

// Cancel marks an event cancelled. A cancelled event generates no further
// reminders regardless of its offsets.
func Cancel(ctx context.Context, st store.Store, id string) error {
	return Transition(ctx, st, id, models.StatusCancelled)
}

// Complete marks an event completed.
func Complete(ctx context.Context, st store.Store, id string) error {
	return Transition(ctx, st, id, models.StatusCompleted)
}

// Start marks an event in progress.
func Start(ctx context.Context, st store.Store, id string) error {
	return Transition(ctx, st, id, models.StatusInProgress)
}

func isValidTransition(from, to string) bool {
	for _, s := range ValidTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
