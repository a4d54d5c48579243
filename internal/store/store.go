// Package store owns durable state: events, standalone reminders,
// notifications, the notified set, scheduler state, and settings. The query,
// reminder, and scheduler packages consume the Store interface and never
// touch GORM directly.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/zulandar/cadence/internal/models"
)

// ErrUnavailable wraps read failures from the underlying database.
var ErrUnavailable = errors.New("store unavailable")

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// EventFilters narrows ListEvents results. Zero values mean "no filter".
// These are a pre-filter hint; callers re-apply their own filtering.
type EventFilters struct {
	Ceremony models.CeremonyType
	TeamID   string
	ARTID    string
	PIID     string
	Status   string
}

// Store is the durable storage contract consumed by the engines.
type Store interface {
	// Events.
	ListEvents(ctx context.Context, w Window, f EventFilters) ([]models.CalendarEvent, error)
	GetEvent(ctx context.Context, id string) (*models.CalendarEvent, error)
	CreateEvent(ctx context.Context, ev *models.CalendarEvent) error
	UpdateEventStatus(ctx context.Context, id, status string) error
	DeleteEvent(ctx context.Context, id string) error

	// Standalone reminders (todo/note reminders, snooze replacements).
	ListStandaloneReminders(ctx context.Context, w Window) ([]models.StandaloneReminder, error)
	CreateStandaloneReminder(ctx context.Context, r *models.StandaloneReminder) error
	CompleteStandaloneReminder(ctx context.Context, id string) error

	// Notified set. RecordNotified is insert-if-absent.
	RecordNotified(ctx context.Context, id models.ReminderIdentity) error
	IsNotified(ctx context.Context, id models.ReminderIdentity) (bool, error)

	// Notifications.
	SaveNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error)
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error

	// Settings, read as a value snapshot.
	Settings(ctx context.Context) (models.NotificationSettings, error)
	SaveSettings(ctx context.Context, s models.NotificationSettings) error

	// Scheduler watermark. ok is false when no tick has ever been recorded.
	LastTick(ctx context.Context) (t time.Time, ok bool, err error)
	SetLastTick(ctx context.Context, t time.Time) error
}
