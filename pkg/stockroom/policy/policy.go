// Package policy holds authorization decisions as pure functions, independent
// of the HTTP layer.
package policy

import "github.com/mjwalters/stockroom/pkg/stockroom/models"

// Identity is the authenticated caller as seen by authorization checks.
type Identity struct {
	UserID uint
	Role   string
}

// CanDeleteItem allows admins and the item's original creator.
func CanDeleteItem(actor Identity, item models.Item) bool {
	if actor.Role == string(models.RoleAdmin) {
		return true
	}
	return actor.UserID != 0 && actor.UserID == item.CreatedByID
}

// CanManageUsers allows admins only.
func CanManageUsers(actor Identity) bool {
	return actor.Role == string(models.RoleAdmin)
}
