package postgres

import (
	"context"
	"errors"
	"fmt"

	"hungryHub/domain"

	"gorm.io/gorm"
)

type ShippingRepository struct {
	DB *gorm.DB
}

func NewShippingRepository(db *gorm.DB) *ShippingRepository {
	return &ShippingRepository{
		DB: db,
	}
}

func (r *ShippingRepository) Create(ctx context.Context, detail *domain.ShippingDetail) error {
	if err := r.DB.WithContext(ctx).Create(detail).Error; err != nil {
		return fmt.Errorf("failed to create shipping detail: %w", err)
	}

	return nil
}

func (r *ShippingRepository) FindByID(ctx context.Context, id uint) (domain.ShippingDetail, error) {
	var detail domain.ShippingDetail

	err := r.DB.WithContext(ctx).Preload("Order").First(&detail, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ShippingDetail{}, fmt.Errorf("shipping detail %d: %w", id, domain.ErrNotFound)
		}
		return domain.ShippingDetail{}, fmt.Errorf("failed to find shipping detail: %w", err)
	}

	return detail, nil
}

func (r *ShippingRepository) FindByOrder(ctx context.Context, orderID uint) (domain.ShippingDetail, error) {
	var detail domain.ShippingDetail

	err := r.DB.WithContext(ctx).Preload("Order").Where("order_id = ?", orderID).First(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ShippingDetail{}, fmt.Errorf("shipping for order %d: %w", orderID, domain.ErrNotFound)
		}
		return domain.ShippingDetail{}, fmt.Errorf("failed to find shipping detail: %w", err)
	}

	return detail, nil
}

func (r *ShippingRepository) FindByShipperPaged(ctx context.Context, shipperID string, offset, limit int) ([]domain.ShippingDetail, int64, error) {
	var details []domain.ShippingDetail
	var total int64

	query := r.DB.WithContext(ctx).Model(&domain.ShippingDetail{}).Where("shipper_id = ?", shipperID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count shipping details: %w", err)
	}

	err := query.
		Preload("Order").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&details).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find shipping details: %w", err)
	}

	return details, total, nil
}

func (r *ShippingRepository) UpdateStatus(ctx context.Context, id uint, status domain.ShippingStatus) error {
	row := r.DB.WithContext(ctx).Model(&domain.ShippingDetail{}).Where("id = ?", id).Update("status", status)
	if row.Error != nil {
		return fmt.Errorf("failed to update shipping status: %w", row.Error)
	}
	if row.RowsAffected == 0 {
		return fmt.Errorf("shipping detail %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
