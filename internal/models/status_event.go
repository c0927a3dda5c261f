package models

import "time"

// StatusEvent is one line of the presentation history: every time the
// player switches to the live embed, back to highlights, or to the next clip.
type StatusEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RunID     string    `gorm:"index;size:36" json:"run_id"` // Which process recorded it
	Live      bool      `json:"live"`
	Cause     string    `gorm:"size:16;index" json:"cause"` // initial, live, offline, rotation
	Source    string    `json:"source"`
	ClipIndex int       `json:"clip_index"`
	At        time.Time `gorm:"index" json:"at"`
	CreatedAt time.Time `json:"-"`
}

// TableName overrides the default pluralization
func (StatusEvent) TableName() string {
	return "status_events"
}
