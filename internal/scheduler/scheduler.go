// Package scheduler runs the reminder detection loop: on each tick it asks
// the reminder engine for newly-due instances, applies the notification
// settings, and emits exactly one notification per reminder identity, durably
// deduplicated across process restarts.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/cadence/internal/dispatch"
	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/query"
	"github.com/zulandar/cadence/internal/reminder"
	"github.com/zulandar/cadence/internal/store"
)

const defaultTickInterval = time.Minute

// Scheduler is the single background loop. Only one instance may run against
// a given store; concurrent schedulers would race the notified-set insert.
type Scheduler struct {
	store     store.Store
	reminders *reminder.Engine
	queries   *query.Engine
	sinks     []dispatch.Sink
	interval  time.Duration
	digest    *digestState
	out       io.Writer
	now       func() time.Time
}

// Opts holds parameters for creating a Scheduler.
type Opts struct {
	Store     store.Store
	Reminders *reminder.Engine
	Queries   *query.Engine // used by the agenda digest; may be nil when DigestCron is empty
	Sinks     []dispatch.Sink
	Interval  time.Duration // defaults to one minute
	// DigestCron is an optional 5-field cron expression for the daily
	// agenda digest.
	DigestCron string
	Out        io.Writer
	Now        func() time.Time // injectable clock for tests
}

// New creates a Scheduler.
func New(opts Opts) (*Scheduler, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("scheduler: store is required")
	}
	if opts.Reminders == nil {
		return nil, fmt.Errorf("scheduler: reminder engine is required")
	}
	s := &Scheduler{
		store:     opts.Store,
		reminders: opts.Reminders,
		queries:   opts.Queries,
		sinks:     opts.Sinks,
		interval:  opts.Interval,
		out:       opts.Out,
		now:       opts.Now,
	}
	if s.interval <= 0 {
		s.interval = defaultTickInterval
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.DigestCron != "" {
		if opts.Queries == nil {
			return nil, fmt.Errorf("scheduler: query engine is required for the agenda digest")
		}
		d, err := newDigestState(opts.DigestCron, s.now())
		if err != nil {
			return nil, err
		}
		s.digest = d
	}
	return s, nil
}

// Run loops until ctx is cancelled. Ticks never overlap: each one finishes
// before the next sleep starts, which keeps the last-tick watermark
// monotonic. An in-flight tick is allowed to finish on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "Scheduler starting (tick every %s)...\n", s.interval)
	defer fmt.Fprintf(s.out, "Scheduler stopped.\n")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if created, err := s.Tick(ctx, s.now()); err != nil {
			log.Printf("scheduler: tick: %v", err)
		} else if created > 0 {
			fmt.Fprintf(s.out, "Tick: %d notification(s) created\n", created)
		}

		if s.digest != nil {
			if err := s.maybeDigest(ctx, s.now()); err != nil {
				log.Printf("scheduler: digest: %v", err)
			}
		}

		sleepWithContext(ctx, s.interval)
	}
}

// Tick runs one detection pass for the window (lastTick, now]. Per-instance
// failures are isolated: the failed instance stays inside the next window and
// is retried, while the rest of the batch proceeds. Returns the number of
// notifications created.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) (int, error) {
	lastTick, ok, err := s.store.LastTick(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		// First run: start the window at now rather than replaying history.
		lastTick = now
	}
	if !now.After(lastTick) {
		return 0, s.store.SetLastTick(ctx, lastTick)
	}

	instances, err := s.reminders.Due(ctx, lastTick, now)
	if err != nil {
		return 0, err
	}

	settings, err := s.store.Settings(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	watermark := now
	for _, inst := range instances {
		ok, err := s.process(ctx, inst, &settings)
		if err != nil {
			log.Printf("scheduler: reminder %s: %v", inst.Identity.Key(), err)
			// Pull the watermark back so (watermark, next now] re-covers
			// this instance's due time on the next tick.
			if retryFrom := inst.DueAt.Add(-time.Nanosecond); retryFrom.Before(watermark) {
				watermark = retryFrom
			}
			continue
		}
		if ok {
			created++
		}
	}

	if watermark.Before(lastTick) {
		watermark = lastTick
	}
	if err := s.store.SetLastTick(ctx, watermark); err != nil {
		return created, err
	}
	return created, nil
}

// process handles one due reminder instance. Returns true when a
// notification was created and delivered.
func (s *Scheduler) process(ctx context.Context, inst reminder.Instance, settings *models.NotificationSettings) (bool, error) {
	notified, err := s.store.IsNotified(ctx, inst.Identity)
	if err != nil {
		return false, err
	}
	if notified {
		return false, nil
	}

	if suppressed(inst, settings) {
		// Suppressed means suppressed: the instance is marked notified and
		// never re-offered, matching the product's observed behavior.
		if err := s.store.RecordNotified(ctx, inst.Identity); err != nil {
			return false, err
		}
		return false, nil
	}

	n := &models.Notification{
		ID:          uuid.NewString(),
		IdentityKey: inst.Identity.Key(),
		Category:    inst.Category,
		Priority:    inst.Priority,
		Title:       inst.Title,
		Message:     inst.Message,
		SourceID:    inst.Identity.SourceID,
		DueAt:       inst.DueAt,
		Actions:     models.EncodeStrings(inst.Actions),
		CreatedAt:   s.now(),
	}
	if err := s.store.SaveNotification(ctx, n); err != nil {
		return false, err
	}
	if err := s.store.RecordNotified(ctx, inst.Identity); err != nil {
		return false, err
	}

	s.deliver(ctx, n)
	return true, nil
}

// deliver hands the notification to every sink. Sink failures are logged and
// swallowed; a denied notification permission must never stall the loop.
func (s *Scheduler) deliver(ctx context.Context, n *models.Notification) {
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			log.Printf("scheduler: sink %s: %v", sink.Name(), err)
		}
	}
}

// suppressed evaluates the settings snapshot against one instance: global
// kill switch, per-category switch, then quiet hours on the due time.
func suppressed(inst reminder.Instance, settings *models.NotificationSettings) bool {
	if !settings.Enabled {
		return true
	}
	if !settings.CategoryEnabled(inst.Category) {
		return true
	}
	return inQuietHours(inst.DueAt, settings)
}

// inQuietHours reports whether t falls inside the configured quiet-hours
// range. Both bounds normalize to minutes-of-day; start > end is an
// overnight interval (e.g. 22:00-08:00 wraps midnight).
func inQuietHours(t time.Time, settings *models.NotificationSettings) bool {
	if !settings.QuietHoursEnabled {
		return false
	}
	start, okStart := parseMinutes(settings.QuietHoursStart)
	end, okEnd := parseMinutes(settings.QuietHoursEnd)
	if !okStart || !okEnd || start == end {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	if start < end {
		return m >= start && m < end
	}
	return m >= start || m < end
}

// parseMinutes converts "HH:MM" to minutes-of-day.
func parseMinutes(s string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// sleepWithContext sleeps for duration d, returning early if ctx is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
