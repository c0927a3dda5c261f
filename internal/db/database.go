package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"linktree/internal/config"
	"linktree/internal/models"
)

type Client struct {
	DB *gorm.DB
}

// New opens the history database. It returns nil when database.driver is
// "none": the page works without history.
func New(cfg *config.Config) *Client {
	var dialector gorm.Dialector

	switch cfg.Database.Driver {
	case "none", "":
		log.Println("Info: database disabled, status history is not recorded")
		return nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Database.Host,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.Port,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.Path)
	default:
		log.Fatalf("❌ Unknown database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	// Connection Pool Settings
	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Printf("✅ Database Connected (%s)", cfg.Database.Driver)

	return &Client{DB: db}
}

// AutoMigrate creates/updates tables based on struct definitions
func (c *Client) AutoMigrate() {
	log.Println("Running Database Migrations...")
	if err := c.DB.AutoMigrate(&models.StatusEvent{}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("✅ Migrations Complete")
}

// RecordEvent appends one entry to the status history.
func (c *Client) RecordEvent(ev *models.StatusEvent) error {
	return c.DB.Create(ev).Error
}

// RecentEvents returns the newest events first.
func (c *Client) RecentEvents(limit int) ([]models.StatusEvent, error) {
	var events []models.StatusEvent
	err := c.DB.Order("at desc, id desc").Limit(limit).Find(&events).Error
	return events, err
}
