package groupref

import (
	"testing"

	"github.com/mjwalters/stockroom/pkg/stockroom/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func createTestGroup(t *testing.T, db *gorm.DB, name, colour string) models.Group {
	group := models.Group{Name: name, Description: "desc for " + name, Colour: colour}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}
	return group
}

func TestForName(t *testing.T) {
	s, err := ForName("snapshot")
	if err != nil || s.Name() != "snapshot" {
		t.Errorf("Expected snapshot strategy, got %v (%v)", s, err)
	}

	s, err = ForName("referential")
	if err != nil || s.Name() != "referential" {
		t.Errorf("Expected referential strategy, got %v (%v)", s, err)
	}

	// Empty name falls back to the default
	s, err = ForName("")
	if err != nil || s.Name() != "snapshot" {
		t.Errorf("Expected snapshot strategy for empty name, got %v (%v)", s, err)
	}

	if _, err := ForName("bogus"); err == nil {
		t.Error("Expected error for unknown strategy name")
	}
}

func TestSnapshotCopiesGroupFields(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Electronics", "#112233")

	snap, err := SnapshotStrategy{}.Snapshot(db, group.ID)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if snap.GroupID != group.ID {
		t.Errorf("Expected group id %d, got %d", group.ID, snap.GroupID)
	}
	if snap.Name != "Electronics" || snap.Colour != "#112233" {
		t.Errorf("Snapshot should copy display fields, got %+v", snap)
	}
}

func TestSnapshotUnknownGroup(t *testing.T) {
	db := setupTestDB(t)

	if _, err := (SnapshotStrategy{}).Snapshot(db, 999); err != ErrGroupNotFound {
		t.Errorf("Expected ErrGroupNotFound, got %v", err)
	}
	if _, err := (ReferentialStrategy{}).Snapshot(db, 999); err != ErrGroupNotFound {
		t.Errorf("Expected ErrGroupNotFound, got %v", err)
	}
}

func TestSnapshotRefreshOverwritesStaleCopy(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Electronics", "#112233")

	snap, _ := SnapshotStrategy{}.Snapshot(db, group.ID)
	items := []models.Item{{Name: "Cable", Group: snap}}

	// The group changes after the snapshot was taken
	db.Model(&group).Updates(map[string]interface{}{"colour": "#ABCDEF", "name": "Gadgets"})

	if err := (SnapshotStrategy{}).Refresh(db, items); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if items[0].Group.Colour != "#ABCDEF" {
		t.Errorf("Expected refreshed colour #ABCDEF, got %s", items[0].Group.Colour)
	}
	if items[0].Group.Name != "Gadgets" {
		t.Errorf("Expected refreshed name Gadgets, got %s", items[0].Group.Name)
	}
}

func TestSnapshotRefreshKeepsLastCopyWhenGroupDeleted(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Electronics", "#112233")

	snap, _ := SnapshotStrategy{}.Snapshot(db, group.ID)
	items := []models.Item{{Name: "Cable", Group: snap}}

	db.Delete(&group)

	if err := (SnapshotStrategy{}).Refresh(db, items); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if items[0].Group.Name != "Electronics" || items[0].Group.Colour != "#112233" {
		t.Errorf("Expected last snapshot to survive group deletion, got %+v", items[0].Group)
	}
}

func TestReferentialSnapshotStoresOnlyID(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Electronics", "#112233")

	snap, err := ReferentialStrategy{}.Snapshot(db, group.ID)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.GroupID != group.ID {
		t.Errorf("Expected group id %d, got %d", group.ID, snap.GroupID)
	}
	if snap.Name != "" || snap.Colour != "" {
		t.Errorf("Referential snapshot should not carry display fields, got %+v", snap)
	}
}

func TestReferentialRefreshResolvesLiveFields(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Electronics", "#112233")

	items := []models.Item{{Name: "Cable", Group: models.GroupSnapshot{GroupID: group.ID}}}
	if err := (ReferentialStrategy{}).Refresh(db, items); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if items[0].Group.Name != "Electronics" || items[0].Group.Colour != "#112233" {
		t.Errorf("Expected live fields resolved, got %+v", items[0].Group)
	}
}

func TestReferentialRefreshDanglingReference(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Electronics", "#112233")

	items := []models.Item{{Name: "Cable", Group: models.GroupSnapshot{
		GroupID: group.ID, Name: "Electronics", Colour: "#112233",
	}}}

	db.Delete(&group)

	if err := (ReferentialStrategy{}).Refresh(db, items); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if items[0].Group.GroupID != group.ID {
		t.Errorf("Expected the unresolved id to survive, got %d", items[0].Group.GroupID)
	}
	if items[0].Group.Name != "" || items[0].Group.Colour != "" {
		t.Errorf("Expected display fields blanked for a dangling reference, got %+v", items[0].Group)
	}
}

func TestRefreshWholePageAfterGroupRename(t *testing.T) {
	db := setupTestDB(t)
	group := createTestGroup(t, db, "Electronics", "#112233")
	other := createTestGroup(t, db, "Office", "#445566")

	snap, _ := SnapshotStrategy{}.Snapshot(db, group.ID)
	otherSnap, _ := SnapshotStrategy{}.Snapshot(db, other.ID)

	// A full page of items across two groups
	items := make([]models.Item, 0, 30)
	for i := 0; i < 25; i++ {
		items = append(items, models.Item{Name: "a", Group: snap})
	}
	for i := 0; i < 5; i++ {
		items = append(items, models.Item{Name: "b", Group: otherSnap})
	}

	db.Model(&group).Update("name", "Gadgets")

	if err := (SnapshotStrategy{}).Refresh(db, items); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	for i := 0; i < 25; i++ {
		if items[i].Group.Name != "Gadgets" {
			t.Fatalf("Item %d not refreshed: %+v", i, items[i].Group)
		}
	}
	for i := 25; i < 30; i++ {
		if items[i].Group.Name != "Office" {
			t.Fatalf("Item %d wrongly refreshed: %+v", i, items[i].Group)
		}
	}
}
