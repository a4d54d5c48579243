package models

import "time"

// CeremonyType identifies a SAFe ceremony.
type CeremonyType string

const (
	CeremonySprintPlanning      CeremonyType = "sprint_planning"
	CeremonyDailyStandup        CeremonyType = "daily_standup"
	CeremonySprintReview        CeremonyType = "sprint_review"
	CeremonySprintRetrospective CeremonyType = "sprint_retrospective"
	CeremonyBacklogRefinement   CeremonyType = "backlog_refinement"
	CeremonyPIPlanning          CeremonyType = "pi_planning"
	CeremonySystemDemo          CeremonyType = "system_demo"
	CeremonyInspectAdapt        CeremonyType = "inspect_adapt"
	CeremonyARTSync             CeremonyType = "art_sync"
	CeremonyPOSync              CeremonyType = "po_sync"
	CeremonyScrumOfScrums       CeremonyType = "scrum_of_scrums"
	CeremonySolutionDemo        CeremonyType = "solution_demo"
	CeremonyPrePostPIPlanning   CeremonyType = "pre_post_pi_planning"
	CeremonyInnovationPlanning  CeremonyType = "innovation_planning"
)

// CeremonyTypes lists every known ceremony type.
var CeremonyTypes = []CeremonyType{
	CeremonySprintPlanning,
	CeremonyDailyStandup,
	CeremonySprintReview,
	CeremonySprintRetrospective,
	CeremonyBacklogRefinement,
	CeremonyPIPlanning,
	CeremonySystemDemo,
	CeremonyInspectAdapt,
	CeremonyARTSync,
	CeremonyPOSync,
	CeremonyScrumOfScrums,
	CeremonySolutionDemo,
	CeremonyPrePostPIPlanning,
	CeremonyInnovationPlanning,
}

// Valid reports whether c is a known ceremony type.
func (c CeremonyType) Valid() bool {
	for _, t := range CeremonyTypes {
		if c == t {
			return true
		}
	}
	return false
}

// Priority returns the notification priority for this ceremony type.
// PI-level ceremonies outrank team-level ones.
func (c CeremonyType) Priority() string {
	switch c {
	case CeremonyPIPlanning, CeremonyInspectAdapt:
		return PriorityHigh
	case CeremonySprintPlanning, CeremonySprintReview, CeremonySystemDemo,
		CeremonySolutionDemo, CeremonyPrePostPIPlanning:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Event statuses.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// EventStatuses lists every valid event status.
var EventStatuses = []string{StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled}

// CalendarEvent is a scheduled ceremony, optionally recurring.
type CalendarEvent struct {
	ID          string       `gorm:"primaryKey;size:36"`
	Title       string       `gorm:"not null"`
	Description string       `gorm:"type:text"`
	Ceremony    CeremonyType `gorm:"size:32;index"`
	StartTime   time.Time    `gorm:"index"`
	EndTime     time.Time
	Location    string `gorm:"size:256"`
	IsVirtual   bool
	MeetingLink string `gorm:"size:512"`
	Organizer   string `gorm:"size:64"`
	Attendees   string `gorm:"type:text"` // JSON array of identifiers
	Status      string `gorm:"size:16;default:scheduled;index"`

	// Flattened recurrence pattern. Recurring=false means a one-off event
	// and the pattern columns are ignored.
	Recurring      bool
	Frequency      string `gorm:"size:16"`
	Interval       int
	DaysOfWeek     string `gorm:"size:32"` // JSON array of weekday indices (0=Sunday)
	DayOfMonth     int
	RecurrenceEnd  *time.Time // exclusive; mutually exclusive with MaxOccurrences
	MaxOccurrences int

	// Minutes-before-start offsets, JSON array. Empty means no reminders.
	ReminderOffsets string `gorm:"type:text"`

	// Dimensional tags, used only for filtering.
	ProgramIncrementID string `gorm:"size:32;index"`
	SprintID           string `gorm:"size:32;index"`
	ARTID              string `gorm:"size:32;index"`
	TeamID             string `gorm:"size:32;index"`
	Tags               string `gorm:"type:text"` // JSON array of free-text labels

	CreatedAt time.Time
	UpdatedAt time.Time
}
