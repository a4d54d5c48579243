// Package reminder derives due reminder instances from event occurrences and
// user-specified offsets. The engine is stateless per call; deduplication is
// the scheduler's job.
package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/recurrence"
	"github.com/zulandar/cadence/internal/store"
)

// maxLeadTime bounds how far ahead of the check window an occurrence may
// start and still have a reminder due inside it. Offsets larger than this
// are not surfaced.
const maxLeadTime = 30 * 24 * time.Hour

// Instance is one (occurrence, offset) reminder opportunity. Identity is the
// deduplication unit: the same identity never produces two notifications.
type Instance struct {
	Identity models.ReminderIdentity
	Category string
	Priority string
	Title    string
	Message  string
	DueAt    time.Time
	StartsAt time.Time // when the underlying occurrence or reminder fires
	Actions  []string
}

// Action sets are closed per source type.
var (
	eventActions = []string{"view", "dismiss", "snooze"}
	todoActions  = []string{"complete", "dismiss", "snooze"}
	noteActions  = []string{"open", "dismiss", "snooze"}
)

// Engine computes due reminders from the store.
type Engine struct {
	store store.Store
}

// New creates a reminder Engine over the given store.
func New(st store.Store) *Engine {
	return &Engine{store: st}
}

// Due returns every reminder instance whose due time falls in (from, to]:
// event reminders for each occurrence × offset pair, plus standalone
// todo/note reminders. Cancelled and completed events generate nothing.
// Events with malformed offsets or patterns are skipped with a log line.
func (e *Engine) Due(ctx context.Context, from, to time.Time) ([]Instance, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("reminder: window end %s before start %s", to, from)
	}

	events, err := e.store.ListEvents(ctx, store.Window{Start: from, End: to.Add(maxLeadTime)}, store.EventFilters{})
	if err != nil {
		return nil, err
	}

	var out []Instance
	for i := range events {
		ev := &events[i]
		if ev.Status == models.StatusCancelled || ev.Status == models.StatusCompleted {
			continue
		}
		instances, err := e.eventInstances(ev, from, to)
		if err != nil {
			log.Printf("reminder: skipping event %s: %v", ev.ID, err)
			continue
		}
		out = append(out, instances...)
	}

	standalone, err := e.store.ListStandaloneReminders(ctx, store.Window{Start: from, End: to.Add(time.Nanosecond)})
	if err != nil {
		return nil, err
	}
	for _, r := range standalone {
		if !r.RemindAt.After(from) || r.RemindAt.After(to) {
			continue
		}
		out = append(out, standaloneInstance(r))
	}

	return out, nil
}

// eventInstances expands one event's occurrences far enough ahead that every
// offset with a due time inside (from, to] is covered.
func (e *Engine) eventInstances(ev *models.CalendarEvent, from, to time.Time) ([]Instance, error) {
	offsets, err := ev.Offsets()
	if err != nil {
		return nil, err
	}
	if len(offsets) == 0 {
		return nil, nil
	}
	pattern, err := ev.Pattern()
	if err != nil {
		return nil, err
	}

	// Offsets are sorted ascending; the largest drives the lookahead. The
	// extra nanosecond keeps an occurrence at exactly to+offset inside the
	// exclusive expansion window, so a reminder due exactly at to is found.
	maxOffset := time.Duration(offsets[len(offsets)-1]) * time.Minute
	occs, err := recurrence.Expand(ev.ID, ev.StartTime, ev.EndTime, pattern, from, to.Add(maxOffset+time.Nanosecond))
	if err != nil {
		return nil, err
	}

	var out []Instance
	for _, occ := range occs {
		for _, offset := range offsets {
			dueAt := occ.Start.Add(-time.Duration(offset) * time.Minute)
			if !dueAt.After(from) || dueAt.After(to) {
				continue
			}
			out = append(out, Instance{
				Identity: models.ReminderIdentity{
					SourceID:        ev.ID,
					OccurrenceIndex: occ.Index,
					OffsetMinutes:   offset,
				},
				Category: models.CategoryCeremony,
				Priority: ev.Ceremony.Priority(),
				Title:    ev.Title,
				Message:  fmt.Sprintf("%s starts in %d minutes", ev.Title, offset),
				DueAt:    dueAt,
				StartsAt: occ.Start,
				Actions:  eventActions,
			})
		}
	}
	return out, nil
}

// standaloneInstance converts a standalone reminder to an Instance. Offset
// and occurrence index are zero by construction, so a snoozed reminder's
// fresh ID is a fresh identity.
func standaloneInstance(r models.StandaloneReminder) Instance {
	actions := todoActions
	if r.Category == models.CategoryNote {
		actions = noteActions
	}
	msg := r.Message
	if msg == "" {
		msg = r.Title
	}
	return Instance{
		Identity: models.ReminderIdentity{SourceID: r.ID},
		Category: r.Category,
		Priority: models.PriorityMedium,
		Title:    r.Title,
		Message:  msg,
		DueAt:    r.RemindAt,
		StartsAt: r.RemindAt,
		Actions:  actions,
	}
}
