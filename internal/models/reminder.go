package models

import "time"

// StandaloneReminder is a reminder not derived from a calendar event: a todo
// or note reminder, or the replacement reminder created by a snooze. Each has
// its own ID, so a snoozed reminder is a fresh identity to the scheduler.
type StandaloneReminder struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Title     string    `gorm:"size:256"`
	Message   string    `gorm:"type:text"`
	Category  string    `gorm:"size:16;default:todo"`
	RemindAt  time.Time `gorm:"index"`
	SourceRef string    `gorm:"size:36"` // underlying note/todo/event, if any
	Completed bool      `gorm:"default:false;index"`
	CreatedAt time.Time
}
