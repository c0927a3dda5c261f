package database

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"linktree/internal/config"
	"linktree/internal/models"
)

// SetupInMemoryDB creates a throwaway DB for testing
func SetupInMemoryDB(t *testing.T) *Client {
	t.Helper()
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every new connection to ":memory:" is a new, empty database.
	sqlDB, _ := d.DB()
	sqlDB.SetMaxOpenConns(1)
	c := &Client{DB: d}
	c.AutoMigrate()
	return c
}

func TestRecentEvents(t *testing.T) {
	db := SetupInMemoryDB(t)
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	for i, cause := range []string{"initial", "live", "offline", "rotation"} {
		err := db.RecordEvent(&models.StatusEvent{
			RunID: "run-1",
			Live:  cause == "live",
			Cause: cause,
			At:    base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordEvent failed: %v", err)
		}
	}

	events, err := db.RecentEvents(2)
	if err != nil {
		t.Fatalf("RecentEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].Cause != "rotation" || events[1].Cause != "offline" {
		t.Errorf("Expected newest first, got %s, %s", events[0].Cause, events[1].Cause)
	}
}

func TestNewDisabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = "none"
	if New(cfg) != nil {
		t.Error("Expected nil client when the database is disabled")
	}
}

func TestNewSQLiteFile(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = t.TempDir() + "/linktree.db"

	db := New(cfg)
	db.AutoMigrate()
	if err := db.RecordEvent(&models.StatusEvent{Cause: "initial", At: time.Now()}); err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}
}
