package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/query"
	"github.com/zulandar/cadence/internal/store"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// digestState tracks when the next agenda digest is due.
type digestState struct {
	schedule cron.Schedule
	next     time.Time
}

func newDigestState(spec string, now time.Time) (*digestState, error) {
	sched, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("scheduler: digest cron %q: %w", spec, err)
	}
	return &digestState{schedule: sched, next: sched.Next(now)}, nil
}

// maybeDigest delivers the daily agenda when the cron schedule has fired
// since the last check. The digest is a broadcast, not a reminder: it is
// delivered to the sinks but not persisted and not deduplicated.
func (s *Scheduler) maybeDigest(ctx context.Context, now time.Time) error {
	if now.Before(s.digest.next) {
		return nil
	}
	s.digest.next = s.digest.schedule.Next(now)

	n, err := s.buildDigest(ctx, now)
	if err != nil {
		return err
	}
	if n == nil {
		return nil
	}
	s.deliver(ctx, n)
	return nil
}

// buildDigest queries today's remaining occurrences and formats them into a
// single notification. Returns nil when the rest of the day is empty.
func (s *Scheduler) buildDigest(ctx context.Context, now time.Time) (*models.Notification, error) {
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	occs, err := s.queries.Occurrences(ctx, store.Window{Start: now, End: dayEnd}, query.Filters{})
	if err != nil {
		return nil, err
	}
	if len(occs) == 0 {
		return nil, nil
	}

	var b strings.Builder
	for _, o := range occs {
		fmt.Fprintf(&b, "%s  %s", o.Start.Format("15:04"), o.Event.Title)
		if o.Event.Location != "" {
			fmt.Fprintf(&b, " (%s)", o.Event.Location)
		}
		b.WriteString("\n")
	}

	return &models.Notification{
		ID:        uuid.NewString(),
		Category:  models.CategoryCeremony,
		Priority:  models.PriorityLow,
		Title:     fmt.Sprintf("Today's ceremonies (%d)", len(occs)),
		Message:   strings.TrimRight(b.String(), "\n"),
		DueAt:     now,
		CreatedAt: now,
	}, nil
}
