// Package seed loads or wipes demo data for local development.
package seed

import (
	"fmt"

	"github.com/mjwalters/stockroom/pkg/stockroom/auth"
	"github.com/mjwalters/stockroom/pkg/stockroom/groupref"
	"github.com/mjwalters/stockroom/pkg/stockroom/models"
	"gorm.io/gorm"
)

// Delete removes all users, items and groups.
func Delete(db *gorm.DB) error {
	session := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{&models.Item{}, &models.Group{}, &models.User{}} {
		if err := session.Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// Insert wipes the database and loads the demo dataset:
// admin/admin123 and user/user123, two groups, three items.
func Insert(db *gorm.DB) error {
	if err := Delete(db); err != nil {
		return err
	}

	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	userHash, err := auth.HashPassword("user123")
	if err != nil {
		return err
	}

	admin := models.User{Username: "admin", PasswordHash: adminHash, Role: models.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	user := models.User{Username: "user", PasswordHash: userHash, Role: models.RoleUser}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	electronics := models.Group{
		Name:        "Electronics",
		Description: "Electronic gadgets and accessories",
		Colour:      "#1E90FF",
		CreatedByID: admin.ID,
	}
	if err := db.Create(&electronics).Error; err != nil {
		return err
	}
	office := models.Group{
		Name:        "Office Supplies",
		Description: "Everyday office essentials",
		Colour:      "#FFA500",
		CreatedByID: admin.ID,
	}
	if err := db.Create(&office).Error; err != nil {
		return err
	}

	strategy := groupref.SnapshotStrategy{}
	items := []struct {
		item  models.Item
		group uint
	}{
		{models.Item{Name: "AA Batteries", SKU: "BAT-AA", Quantity: 200, Price: 0.5, CreatedByID: admin.ID}, office.ID},
		{models.Item{Name: "USB-C Cable", SKU: "USB-C-1M", Quantity: 50, Price: 3.99, CreatedByID: user.ID}, electronics.ID},
		{models.Item{Name: "Laptop Stand", SKU: "STAND-01", Quantity: 12, Price: 29.99, CreatedByID: admin.ID}, office.ID},
	}
	for _, entry := range items {
		snapshot, err := strategy.Snapshot(db, entry.group)
		if err != nil {
			return fmt.Errorf("snapshotting group %d: %w", entry.group, err)
		}
		entry.item.Group = snapshot
		if err := db.Create(&entry.item).Error; err != nil {
			return err
		}
	}

	return nil
}
