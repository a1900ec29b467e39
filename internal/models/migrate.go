package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table in dependency order.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Category{}, &Event{}, &Participant{})
}
