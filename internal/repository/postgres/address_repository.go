package postgres

import (
	"context"
	"errors"
	"fmt"

	"hungryHub/domain"

	"gorm.io/gorm"
)

type AddressRepository struct {
	DB *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{
		DB: db,
	}
}

func (r *AddressRepository) Create(ctx context.Context, address *domain.Address) error {
	if err := r.DB.WithContext(ctx).Create(address).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

func (r *AddressRepository) FindByID(ctx context.Context, id uint) (domain.Address, error) {
	var address domain.Address

	err := r.DB.WithContext(ctx).First(&address, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Address{}, fmt.Errorf("address %d: %w", id, domain.ErrNotFound)
		}
		return domain.Address{}, fmt.Errorf("failed to find address: %w", err)
	}

	return address, nil
}

func (r *AddressRepository) Update(ctx context.Context, address *domain.Address) error {
	row := r.DB.WithContext(ctx).Model(&domain.Address{}).Where("id = ?", address.ID).
		Select("street", "ward", "district", "city", "latitude", "longitude", "updated_at").
		Updates(address)
	if row.Error != nil {
		return fmt.Errorf("failed to update address: %w", row.Error)
	}
	if row.RowsAffected == 0 {
		return fmt.Errorf("address %d: %w", address.ID, domain.ErrNotFound)
	}

	return nil
}
