package models

import (
	"encoding/json"
	"time"
)

// NotificationSettings is the single-row, user-scoped notification policy.
// The scheduler reads it as a value snapshot each tick; writes replace the
// whole row.
type NotificationSettings struct {
	ID                          uint   `gorm:"primaryKey"`
	Enabled                     bool   `gorm:"default:true"`
	SoundEnabled                bool   `gorm:"default:true"`
	BrowserNotificationsEnabled bool   `gorm:"default:true"`
	Categories                  string `gorm:"type:text"` // JSON map category -> bool
	QuietHoursEnabled           bool
	QuietHoursStart             string `gorm:"size:5"` // "HH:MM"
	QuietHoursEnd               string `gorm:"size:5"` // "HH:MM"
	UpdatedAt                   time.Time
}

// DefaultSettings returns the settings row seeded at db init: everything on,
// no quiet hours.
func DefaultSettings() NotificationSettings {
	cats := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		cats[c] = true
	}
	data, _ := json.Marshal(cats)
	return NotificationSettings{
		ID:                          1,
		Enabled:                     true,
		SoundEnabled:                true,
		BrowserNotificationsEnabled: true,
		Categories:                  string(data),
	}
}

// CategoryEnabled reports whether the given category is enabled. Unknown or
// unlisted categories default to enabled.
func (s *NotificationSettings) CategoryEnabled(category string) bool {
	if s.Categories == "" {
		return true
	}
	var cats map[string]bool
	if err := json.Unmarshal([]byte(s.Categories), &cats); err != nil {
		return true
	}
	enabled, ok := cats[category]
	if !ok {
		return true
	}
	return enabled
}

// SetCategory enables or disables a category, preserving the others.
func (s *NotificationSettings) SetCategory(category string, enabled bool) error {
	cats := make(map[string]bool)
	if s.Categories != "" {
		if err := json.Unmarshal([]byte(s.Categories), &cats); err != nil {
			cats = make(map[string]bool)
		}
	}
	cats[category] = enabled
	data, err := json.Marshal(cats)
	if err != nil {
		return err
	}
	s.Categories = string(data)
	return nil
}
