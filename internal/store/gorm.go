package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/cadence/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStore implements Store on a GORM database (SQLite or MySQL).
type gormStore struct {
	db *gorm.DB
}

// New returns a Store backed by the given GORM database.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func wrapRead(op string, err error) error {
	return fmt.Errorf("store: %s: %v: %w", op, err, ErrUnavailable)
}

// ListEvents returns events that could produce occurrences inside w, narrowed
// by f. Recurring events are matched conservatively: only a recurrence end
// before the window rules one out.
func (s *gormStore) ListEvents(ctx context.Context, w Window, f EventFilters) ([]models.CalendarEvent, error) {
	q := s.db.WithContext(ctx).Model(&models.CalendarEvent{}).
		Where("(recurring = ? AND (recurrence_end IS NULL OR recurrence_end > ?)) OR (recurring = ? AND start_time < ? AND end_time > ?)",
			true, w.Start, false, w.End, w.Start)

	if f.Ceremony != "" {
		q = q.Where("ceremony = ?", f.Ceremony)
	}
	if f.TeamID != "" {
		q = q.Where("team_id = ?", f.TeamID)
	}
	if f.ARTID != "" {
		q = q.Where("art_id = ?", f.ARTID)
	}
	if f.PIID != "" {
		q = q.Where("program_increment_id = ?", f.PIID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var events []models.CalendarEvent
	if err := q.Order("start_time ASC, id ASC").Find(&events).Error; err != nil {
		return nil, wrapRead("list events", err)
	}
	return events, nil
}

func (s *gormStore) GetEvent(ctx context.Context, id string) (*models.CalendarEvent, error) {
	var ev models.CalendarEvent
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: event %s: %w", id, ErrNotFound)
		}
		return nil, wrapRead("get event", err)
	}
	return &ev, nil
}

func (s *gormStore) CreateEvent(ctx context.Context, ev *models.CalendarEvent) error {
	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("store: create event: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateEventStatus(ctx context.Context, id, status string) error {
	res := s.db.WithContext(ctx).Model(&models.CalendarEvent{}).
		Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("store: update event %s status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: event %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *gormStore) DeleteEvent(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CalendarEvent{})
	if res.Error != nil {
		return fmt.Errorf("store: delete event %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: event %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListStandaloneReminders returns uncompleted reminders due inside w.
func (s *gormStore) ListStandaloneReminders(ctx context.Context, w Window) ([]models.StandaloneReminder, error) {
	var reminders []models.StandaloneReminder
	if err := s.db.WithContext(ctx).
		Where("completed = ? AND remind_at >= ? AND remind_at < ?", false, w.Start, w.End).
		Order("remind_at ASC").Find(&reminders).Error; err != nil {
		return nil, wrapRead("list standalone reminders", err)
	}
	return reminders, nil
}

func (s *gormStore) CreateStandaloneReminder(ctx context.Context, r *models.StandaloneReminder) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("store: create reminder: %w", err)
	}
	return nil
}

func (s *gormStore) CompleteStandaloneReminder(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.StandaloneReminder{}).
		Where("id = ?", id).Update("completed", true)
	if res.Error != nil {
		return fmt.Errorf("store: complete reminder %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: reminder %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecordNotified inserts the identity into the notified set. The insert is
// idempotent: a duplicate key is a no-op, never an error.
func (s *gormStore) RecordNotified(ctx context.Context, id models.ReminderIdentity) error {
	mark := models.NotifiedMark{IdentityKey: id.Key(), NotifiedAt: time.Now()}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&mark).Error; err != nil {
		return fmt.Errorf("store: record notified %s: %w", id.Key(), err)
	}
	return nil
}

func (s *gormStore) IsNotified(ctx context.Context, id models.ReminderIdentity) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.NotifiedMark{}).
		Where("identity_key = ?", id.Key()).Count(&count).Error; err != nil {
		return false, wrapRead("is notified", err)
	}
	return count > 0, nil
}

func (s *gormStore) SaveNotification(ctx context.Context, n *models.Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("store: save notification: %w", err)
	}
	return nil
}

func (s *gormStore) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Model(&models.Notification{})
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []models.Notification
	if err := q.Order("created_at DESC, id ASC").Find(&out).Error; err != nil {
		return nil, wrapRead("list notifications", err)
	}
	return out, nil
}

func (s *gormStore) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: notification %s: %w", id, ErrNotFound)
		}
		return nil, wrapRead("get notification", err)
	}
	return &n, nil
}

func (s *gormStore) MarkNotificationRead(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("store: mark notification %s read: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: notification %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *gormStore) DeleteNotification(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Notification{})
	if res.Error != nil {
		return fmt.Errorf("store: delete notification %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: notification %s: %w", id, ErrNotFound)
	}
	return nil
}

// Settings returns the settings row as a value copy so concurrent writers
// never hand the scheduler a partially-updated object.
func (s *gormStore) Settings(ctx context.Context) (models.NotificationSettings, error) {
	var settings models.NotificationSettings
	if err := s.db.WithContext(ctx).First(&settings, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultSettings(), nil
		}
		return settings, wrapRead("settings", err)
	}
	return settings, nil
}

func (s *gormStore) SaveSettings(ctx context.Context, settings models.NotificationSettings) error {
	settings.ID = 1
	if err := s.db.WithContext(ctx).Save(&settings).Error; err != nil {
		return fmt.Errorf("store: save settings: %w", err)
	}
	return nil
}

func (s *gormStore) LastTick(ctx context.Context) (time.Time, bool, error) {
	var state models.SchedulerState
	if err := s.db.WithContext(ctx).First(&state, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, wrapRead("last tick", err)
	}
	return state.LastTick, true, nil
}

func (s *gormStore) SetLastTick(ctx context.Context, t time.Time) error {
	state := models.SchedulerState{ID: 1, LastTick: t}
	if err := s.db.WithContext(ctx).Save(&state).Error; err != nil {
		return fmt.Errorf("store: set last tick: %w", err)
	}
	return nil
}
