// Package groupref owns the policy for keeping an item's group data correct.
//
// Items carry their group inline (models.GroupSnapshot). Two strategies decide
// what that value means: SnapshotStrategy stores a denormalized copy and
// refreshes it opportunistically on every read, trading staleness windows for
// join-free reads; ReferentialStrategy stores only the id and resolves the
// display fields live on every read. One strategy is selected at startup and
// used for every item operation.
package groupref

import (
	"errors"
	"fmt"

	"github.com/mjwalters/stockroom/pkg/stockroom/models"
	"gorm.io/gorm"
)

// ErrGroupNotFound is returned by Snapshot when the group id does not resolve.
var ErrGroupNotFound = errors.New("group not found")

// Strategy controls how an item's group data is kept current.
type Strategy interface {
	// Name identifies the strategy in config and logs.
	Name() string

	// Snapshot resolves groupID and returns the value to store on an item
	// at creation or reassignment time. Returns ErrGroupNotFound when the
	// group does not exist.
	Snapshot(db *gorm.DB, groupID uint) (models.GroupSnapshot, error)

	// Refresh brings the group data on a page of items up to date, in
	// memory, before they are returned to the caller. It issues a single
	// batched query over the distinct referenced group ids regardless of
	// how many items are in the page. The stored rows are not rewritten.
	Refresh(db *gorm.DB, items []models.Item) error
}

// ForName returns the strategy registered under name.
func ForName(name string) (Strategy, error) {
	switch name {
	case "", "snapshot":
		return SnapshotStrategy{}, nil
	case "referential":
		return ReferentialStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown consistency strategy %q", name)
	}
}

// fetchGroups loads all groups referenced by items in one query, keyed by id.
func fetchGroups(db *gorm.DB, items []models.Item) (map[uint]models.Group, error) {
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		id := item.Group.GroupID
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	byID := make(map[uint]models.Group, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	var groups []models.Group
	if err := db.Where("id IN ?", ids).Find(&groups).Error; err != nil {
		return nil, err
	}
	for _, g := range groups {
		byID[g.ID] = g
	}
	return byID, nil
}
