package groupref

import (
	"github.com/mjwalters/stockroom/pkg/stockroom/models"
	"gorm.io/gorm"
)

// ReferentialStrategy stores only the group id on the item and resolves the
// display fields live on every read. Nothing is duplicated, so nothing can go
// stale; the cost is that a read path that skips Refresh returns a bare id,
// and an item whose group was deleted resolves to an id with empty display
// fields (no error).
type ReferentialStrategy struct{}

func (ReferentialStrategy) Name() string { return "referential" }

func (ReferentialStrategy) Snapshot(db *gorm.DB, groupID uint) (models.GroupSnapshot, error) {
	var group models.Group
	if err := db.Select("id").First(&group, groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.GroupSnapshot{}, ErrGroupNotFound
		}
		return models.GroupSnapshot{}, err
	}

	// Only the reference is stored; display fields stay empty at rest.
	return models.GroupSnapshot{GroupID: group.ID}, nil
}

func (ReferentialStrategy) Refresh(db *gorm.DB, items []models.Item) error {
	byID, err := fetchGroups(db, items)
	if err != nil {
		return err
	}

	for i := range items {
		id := items[i].Group.GroupID
		group, ok := byID[id]
		if !ok {
			// Dangling reference: unresolved id, no display data.
			items[i].Group = models.GroupSnapshot{GroupID: id}
			continue
		}
		items[i].Group = models.GroupSnapshot{
			GroupID:     group.ID,
			Name:        group.Name,
			Description: group.Description,
			Colour:      group.Colour,
		}
	}
	return nil
}
