package main

import (
	"fmt"
	"os"
	"time"

	"github.com/zulandar/cadence/internal/config"
	"github.com/zulandar/cadence/internal/db"
	"github.com/zulandar/cadence/internal/store"
)

// loadConfig reads the config file, falling back to defaults when the file
// does not exist and the path is the default one.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == "cadence.yaml" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openStore loads config and opens the configured database.
func openStore(configPath string) (store.Store, *config.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return store.New(gormDB), cfg, nil
}

// parseWhen parses an RFC 3339 timestamp or a date-only value.
func parseWhen(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", v, time.Local)
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized time %q (want RFC 3339, \"2006-01-02 15:04\", or \"2006-01-02\")", v)
	}
	return t, nil
}
