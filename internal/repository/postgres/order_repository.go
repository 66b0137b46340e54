package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hungryHub/domain"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{
		DB: db,
	}
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	var order domain.Order

	err := r.DB.WithContext(ctx).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		return domain.Order{}, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// CountByRestaurant aggregates orders of one restaurant, optionally limited
// to a single month ("2006-01"). The month filter is computed as a created_at
// range in Go so the query stays portable across drivers.
func (r *OrderRepository) CountByRestaurant(ctx context.Context, restaurantID uint, month *string) (int64, error) {
	query, err := r.scoped(ctx, restaurantID, month)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

func (r *OrderRepository) RevenueByRestaurant(ctx context.Context, restaurantID uint, month *string) (float64, error) {
	query, err := r.scoped(ctx, restaurantID, month)
	if err != nil {
		return 0, err
	}

	var revenue float64
	err = query.
		Where("status = ?", domain.OrderCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return revenue, nil
}

func (r *OrderRepository) scoped(ctx context.Context, restaurantID uint, month *string) (*gorm.DB, error) {
	query := r.DB.WithContext(ctx).Model(&domain.Order{}).Where("restaurant_id = ?", restaurantID)

	if month != nil && *month != "" {
		start, err := time.Parse("2006-01", *month)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q: %w", *month, err)
		}
		query = query.Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 1, 0))
	}

	return query, nil
}
