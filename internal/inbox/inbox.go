// Package inbox provides notification lifecycle operations: listing,
// dismissing, and snoozing. A dismiss is terminal; a snooze replaces the
// notification with a fresh standalone reminder whose new identity fires
// exactly once more through the normal pipeline.
package inbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/store"
)

// List returns notifications, newest first.
func List(ctx context.Context, st store.Store, unreadOnly bool) ([]models.Notification, error) {
	return st.ListNotifications(ctx, unreadOnly)
}

// Dismiss marks a notification read. Terminal: the underlying reminder
// identity stays in the notified set and never fires again.
func Dismiss(ctx context.Context, st store.Store, id string) error {
	return st.MarkNotificationRead(ctx, id)
}

// Snooze deletes the notification and schedules a standalone reminder due
// minutes from now, referencing the same underlying source. The replacement
// has a fresh ID, so its identity is new by construction and immune to the
// scheduler's dedup check.
func Snooze(ctx context.Context, st store.Store, id string, minutes int, now time.Time) (*models.StandaloneReminder, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("inbox: snooze minutes %d must be positive", minutes)
	}
	n, err := st.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}

	r := &models.StandaloneReminder{
		ID:        uuid.NewString(),
		Title:     n.Title,
		Message:   n.Message,
		Category:  n.Category,
		RemindAt:  now.Add(time.Duration(minutes) * time.Minute),
		SourceRef: n.SourceID,
	}
	if err := st.CreateStandaloneReminder(ctx, r); err != nil {
		return nil, err
	}
	if err := st.DeleteNotification(ctx, id); err != nil {
		return nil, err
	}
	return r, nil
}
