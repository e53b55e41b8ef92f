package groupref

import (
	"github.com/mjwalters/stockroom/pkg/stockroom/models"
	"gorm.io/gorm"
)

// SnapshotStrategy embeds a copy of the group's fields in the item row and
// overwrites that copy with the live values on every read. The contract is
// "refreshed on next read", not "always consistent": between a group edit and
// the next read of a referencing item the stored copy is stale, and once the
// group is deleted every refresh is a no-op, so the item keeps serving the
// last values it saw.
type SnapshotStrategy struct{}

func (SnapshotStrategy) Name() string { return "snapshot" }

func (SnapshotStrategy) Snapshot(db *gorm.DB, groupID uint) (models.GroupSnapshot, error) {
	var group models.Group
	if err := db.First(&group, groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.GroupSnapshot{}, ErrGroupNotFound
		}
		return models.GroupSnapshot{}, err
	}

	return models.GroupSnapshot{
		GroupID:     group.ID,
		Name:        group.Name,
		Description: group.Description,
		Colour:      group.Colour,
	}, nil
}

func (SnapshotStrategy) Refresh(db *gorm.DB, items []models.Item) error {
	byID, err := fetchGroups(db, items)
	if err != nil {
		return err
	}

	for i := range items {
		group, ok := byID[items[i].Group.GroupID]
		if !ok {
			// Group gone: silent degrade, keep the last snapshot.
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
