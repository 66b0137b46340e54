package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hungryHub/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).Preload("Role").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindPaged(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	var total int64

	if err := r.DB.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find users: %w", err)
	}

	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()

	row := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", user.ID).
		Select("username", "email", "full_name", "password", "role_id", "is_verified", "updated_at").
		Updates(user)
	if row.Error != nil {
		return fmt.Errorf("failed to update user: %w", row.Error)
	}
	if row.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrNotFound)
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashed string) error {
	row := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password", hashed)
	if row.Error != nil {
		return fmt.Errorf("failed to update password: %w", row.Error)
	}
	if row.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("last_login", at).Error
}

func (r *UserRepository) UpdateEmailVerification(ctx context.Context, id string, isVerified bool) error {
	row := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("is_verified", isVerified)
	if row.Error != nil {
		return fmt.Errorf("failed to update verification: %w", row.Error)
	}
	if row.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete re-checks existence through the affected-row count so a missing
// record surfaces as not-found rather than a silent no-op.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	row := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if row.Error != nil {
		return fmt.Errorf("failed to delete user: %w", row.Error)
	}
	if row.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
