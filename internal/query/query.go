// Package query answers windowed, multi-filter occurrence queries for
// UI-facing read paths. It is read-only and safe to call concurrently with
// the scheduler.
package query

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/recurrence"
	"github.com/zulandar/cadence/internal/store"
)

// Filters narrows an occurrence query. All set filters are ANDed together.
// Completed events are excluded unless IncludeCompleted is set.
type Filters struct {
	Ceremony         models.CeremonyType
	TeamID           string
	ARTID            string
	PIID             string
	Status           string
	IncludeCompleted bool
	TitleContains    string
}

// Occurrence is one expanded event instance with its source event attached.
type Occurrence struct {
	Event models.CalendarEvent
	Index int
	Start time.Time
	End   time.Time
}

// Engine expands and filters event occurrences from the store.
type Engine struct {
	store store.Store
}

// New creates a query Engine over the given store.
func New(st store.Store) *Engine {
	return &Engine{store: st}
}

// Occurrences returns every occurrence inside [w.Start, w.End) that matches
// f, sorted by start time ascending with ties broken by source event ID. An
// event whose stored recurrence no longer validates is skipped with a log
// line rather than failing the whole query.
func (e *Engine) Occurrences(ctx context.Context, w store.Window, f Filters) ([]Occurrence, error) {
	events, err := e.store.ListEvents(ctx, w, store.EventFilters{
		Ceremony: f.Ceremony,
		TeamID:   f.TeamID,
		ARTID:    f.ARTID,
		PIID:     f.PIID,
		Status:   f.Status,
	})
	if err != nil {
		return nil, err
	}

	var out []Occurrence
	for i := range events {
		ev := &events[i]
		if !matches(ev, f) {
			continue
		}
		pattern, err := ev.Pattern()
		if err != nil {
			log.Printf("query: skipping event %s: %v", ev.ID, err)
			continue
		}
		occs, err := recurrence.Expand(ev.ID, ev.StartTime, ev.EndTime, pattern, w.Start, w.End)
		if err != nil {
			log.Printf("query: skipping event %s: %v", ev.ID, err)
			continue
		}
		for _, o := range occs {
			out = append(out, Occurrence{Event: *ev, Index: o.Index, Start: o.Start, End: o.End})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Event.ID < out[j].Event.ID
	})
	return out, nil
}

// matches applies the filter conjunction to an event. The store may have
// pre-filtered already; re-checking keeps the engine independent of how much
// the adapter narrowed.
func matches(ev *models.CalendarEvent, f Filters) bool {
	if ev.Status == models.StatusCompleted && !f.IncludeCompleted && f.Status != models.StatusCompleted {
		return false
	}
	if f.Ceremony != "" && ev.Ceremony != f.Ceremony {
		return false
	}
	if f.TeamID != "" && ev.TeamID != f.TeamID {
		return false
	}
	if f.ARTID != "" && ev.ARTID != f.ARTID {
		return false
	}
	if f.PIID != "" && ev.ProgramIncrementID != f.PIID {
		return false
	}
	if f.Status != "" && ev.Status != f.Status {
		return false
	}
	if f.TitleContains != "" && !strings.Contains(strings.ToLower(ev.Title), strings.ToLower(f.TitleContains)) {
		return false
	}
	return true
}
