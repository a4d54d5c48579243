package db

import (
	"errors"
	"fmt"

	"github.com/zulandar/cadence/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.CalendarEvent{},
		&models.StandaloneReminder{},
		&models.Notification{},
		&models.NotifiedMark{},
		&models.SchedulerState{},
		&models.NotificationSettings{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedSettings writes the default notification settings row if none exists.
// An existing row is left untouched.
func SeedSettings(db *gorm.DB) error {
	var existing models.NotificationSettings
	err := db.First(&existing, 1).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: read settings: %w", err)
	}
	settings := models.DefaultSettings()
	if err := db.Create(&settings).Error; err != nil {
		return fmt.Errorf("db: seed settings: %w", err)
	}
	return nil
}
