package models

import (
	"time"
)

// Date is stored as YYYY-MM-DD and Time as HH:MM:SS so that exact-match
// filtering behaves the same on every supported driver.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"titulo"`
	Date        string    `gorm:"size:10;not null;index" json:"fecha"`
	Time        string    `gorm:"size:8;not null" json:"hora"`
	Location    string    `gorm:"size:255;not null" json:"ubicacion"`
	Description *string   `json:"descripcion"`
	CategoryID  uint      `gorm:"not null;index" json:"categoria"`
	Category    *Category `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
