package models

import (
	"time"

	"gorm.io/gorm"
)

// Group represents an inventory category that items are assigned to.
// The name is unique; the handler check gives the friendly error and the
// index settles the race between two concurrent creations.
type Group struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Description string         `json:"description"`
	Colour      string         `json:"colour"`
	CreatedByID uint           `gorm:"index" json:"created_by_id"`
}
