package postgres

import (
	"context"
	"errors"
	"fmt"

	"hungryHub/domain"

	"gorm.io/gorm"
)

type RestaurantRepository struct {
	DB *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{
		DB: db,
	}
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) error {
	if err := r.DB.WithContext(ctx).Create(restaurant).Error; err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}

	return nil
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id uint) (domain.Restaurant, error) {
	var restaurant domain.Restaurant

	err := r.DB.WithContext(ctx).
		Preload("Owner").
		Preload("Address").
		Preload("Foods").
		First(&restaurant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Restaurant{}, fmt.Errorf("restaurant %d: %w", id, domain.ErrNotFound)
		}
		return domain.Restaurant{}, fmt.Errorf("failed to find restaurant: %w", err)
	}

	return restaurant, nil
}

func (r *RestaurantRepository) FindByOwner(ctx context.Context, ownerID string) (domain.Restaurant, error) {
	var restaurant domain.Restaurant

	err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).First(&restaurant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Restaurant{}, fmt.Errorf("restaurant of owner %s: %w", ownerID, domain.ErrNotFound)
		}
		return domain.Restaurant{}, fmt.Errorf("failed to find restaurant: %w", err)
	}

	return restaurant, nil
}

// FindPaged lists restaurants, optionally filtered by status.
func (r *RestaurantRepository) FindPaged(ctx context.Context, status *domain.RestaurantStatus, offset, limit int) ([]domain.Restaurant, int64, error) {
	var restaurants []domain.Restaurant
	var total int64

	query := r.DB.WithContext(ctx).Model(&domain.Restaurant{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count restaurants: %w", err)
	}

	err := query.
		Preload("Address").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&restaurants).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find restaurants: %w", err)
	}

	return restaurants, total, nil
}

func (r *RestaurantRepository) Update(ctx context.Context, restaurant *domain.Restaurant) error {
	row := r.DB.WithContext(ctx).Model(&domain.Restaurant{}).Where("id = ?", restaurant.ID).
		Select("name", "description", "avatar_url", "background_url", "certificate_url",
			"status", "open_time", "close_time", "owner_id", "updated_at").
		Updates(restaurant)
	if row.Error != nil {
		return fmt.Errorf("failed to update restaurant: %w", row.Error)
	}
	if row.RowsAffected == 0 {
		return fmt.Errorf("restaurant %d: %w", restaurant.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdateStatus flips the status only when the current value matches expected,
// so concurrent approve/reject calls cannot both win.
func (r *RestaurantRepository) UpdateStatus(ctx context.Context, id uint, expected, next domain.RestaurantStatus) error {
	row := r.DB.WithContext(ctx).Model(&domain.Restaurant{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	if row.Error != nil {
		return fmt.Errorf("failed to update restaurant status: %w", row.Error)
	}
	if row.RowsAffected == 0 {
		return fmt.Errorf("restaurant %d is not %s: %w", id, expected, domain.ErrInvalidTransition)
	}

	return nil
}

func (r *RestaurantRepository) Delete(ctx context.Context, id uint) error {
	row := r.DB.WithContext(ctx).Delete(&domain.Restaurant{}, id)
	if row.Error != nil {
		return fmt.Errorf("failed to delete restaurant: %w", row.Error)
	}
	if row.RowsAffected == 0 {
		return fmt.Errorf("restaurant %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
