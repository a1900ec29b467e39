package models

import (
	"time"
)

// A participant is unique per (event, email); the composite index is what
// actually prevents concurrent double registrations.
type Participant struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:150;not null;index"`
	Email     string `gorm:"size:254;not null;uniqueIndex:idx_participant_event_email,priority:2;index"`
	EventID   uint   `gorm:"not null;uniqueIndex:idx_participant_event_email,priority:1"`
	Event     *Event `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
