package postgres

import (
	"context"
	"errors"
	"fmt"

	"hungryHub/domain"

	"gorm.io/gorm"
)

type RoleRepository struct {
	DB *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{
		DB: db,
	}
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (domain.Role, error) {
	var role domain.Role

	err := r.DB.WithContext(ctx).Preload("Permissions").Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Role{}, fmt.Errorf("role %s: %w", name, domain.ErrNotFound)
		}
		return domain.Role{}, fmt.Errorf("failed to find role: %w", err)
	}

	return role, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id uint) (domain.Role, error) {
	var role domain.Role

	err := r.DB.WithContext(ctx).Preload("Permissions").First(&role, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Role{}, fmt.Errorf("role %d: %w", id, domain.ErrNotFound)
		}
		return domain.Role{}, fmt.Errorf("failed to find role: %w", err)
	}

	return role, nil
}

// HasPermission answers the per-endpoint authorization check for a role name.
func (r *RoleRepository) HasPermission(ctx context.Context, roleName, permission string) (bool, error) {
	var count int64

	err := r.DB.WithContext(ctx).
		Table("role_permissions").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("roles.name = ? AND permissions.name = ?", roleName, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}

	return count > 0, nil
}
