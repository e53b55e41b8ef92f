package models

import (
	"time"

	"gorm.io/gorm"
)

// GroupSnapshot is the group data carried on an item row. Under the snapshot
// strategy all four fields are a denormalized copy taken at assignment time;
// under the referential strategy only GroupID is meaningful at rest and the
// display fields are resolved live on every read.
type GroupSnapshot struct {
	GroupID     uint   `gorm:"index" json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Colour      string `json:"colour"`
}

// Item represents an inventory item
type Item struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	SKU         string         `json:"sku"`
	Description string         `json:"description"`
	Quantity    int            `gorm:"default:0" json:"quantity"`
	Colour      string         `json:"colour"`
	Location    string         `json:"location"`
	Price       float64        `gorm:"default:0" json:"price"`
	Image       string         `json:"image"`
	CreatedByID uint           `gorm:"not null;index" json:"created_by_id"`
	Group       GroupSnapshot  `gorm:"embedded;embeddedPrefix:group_" json:"group"`

	// Relationships
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
