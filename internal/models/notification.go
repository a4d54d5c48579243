package models

import (
	"fmt"
	"time"
)

// Notification priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Notification categories.
const (
	CategoryTodo     = "todo"
	CategoryCeremony = "ceremony"
	CategoryMeeting  = "meeting"
	CategoryNote     = "note"
)

// Categories lists every notification category.
var Categories = []string{CategoryTodo, CategoryCeremony, CategoryMeeting, CategoryNote}

// ReminderIdentity is the composite key for one reminder instance: one
// (source, occurrence, offset) triple fires at most one notification, ever.
type ReminderIdentity struct {
	SourceID        string
	OccurrenceIndex int
	OffsetMinutes   int
}

// Key renders the identity as the string stored in the notified set.
func (r ReminderIdentity) Key() string {
	return fmt.Sprintf("%s/%d/%d", r.SourceID, r.OccurrenceIndex, r.OffsetMinutes)
}

// Notification is a delivered (or deliverable) reminder record. It survives
// process restarts; the scheduler never re-creates one for the same identity.
type Notification struct {
	ID          string `gorm:"primaryKey;size:36"`
	IdentityKey string `gorm:"size:128;index"`
	Category    string `gorm:"size:16;index"`
	Priority    string `gorm:"size:8"`
	Title       string `gorm:"size:256"`
	Message     string `gorm:"type:text"`
	SourceID    string `gorm:"size:36;index"`
	DueAt       time.Time
	IsRead      bool   `gorm:"default:false;index"`
	Actions     string `gorm:"size:128"` // JSON array, closed set per source type
	CreatedAt   time.Time
}

// NotifiedMark records that a reminder identity has fired. Rows are never
// deleted; the primary key makes the insert the dedup point.
type NotifiedMark struct {
	IdentityKey string `gorm:"primaryKey;size:128"`
	NotifiedAt  time.Time
}

// SchedulerState is a single-row table holding the scheduler's watermark.
// LastTick advances monotonically so a restart neither re-scans a processed
// window nor skips one.
type SchedulerState struct {
	ID        uint `gorm:"primaryKey"`
	LastTick  time.Time
	UpdatedAt time.Time
}
