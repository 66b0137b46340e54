package database

import (
	"fmt"

	"hungryHub/domain"

	"gorm.io/gorm"
)

var rolePermissions = map[string][]string{
	domain.RoleUser: {},
	domain.RoleAdmin: {
		domain.PermUserRead,
		domain.PermUserWrite,
		domain.PermUserDelete,
		domain.PermRestaurantCreate,
		domain.PermRestaurantApprove,
		domain.PermShippingAssign,
		domain.PermShippingUpdate,
	},
	domain.RoleOwner: {
		domain.PermRestaurantCreate,
	},
	domain.RoleShipper: {
		domain.PermShippingUpdate,
	},
}

// SeedRoles is idempotent. The USER role must exist before the first
// self-registration succeeds.
func SeedRoles(db *gorm.DB) error {
	for roleName, permNames := range rolePermissions {
		perms := make([]domain.Permission, 0, len(permNames))
		for _, name := range permNames {
			var perm domain.Permission
			if err := db.Where(domain.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", name, err)
			}
			perms = append(perms, perm)
		}

		var role domain.Role
		if err := db.Where(domain.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", roleName, err)
		}

		if len(perms) > 0 {
			if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
				return fmt.Errorf("failed to attach permissions to %s: %w", roleName, err)
			}
		}
	}

	return nil
}
