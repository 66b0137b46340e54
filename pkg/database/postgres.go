package database

import (
	"fmt"

	"hungryHub/domain"
	"hungryHub/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Permission{},
		&domain.Role{},
		&domain.User{},
		&domain.Address{},
		&domain.Restaurant{},
		&domain.Food{},
		&domain.Order{},
		&domain.ShippingDetail{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	return nil
}
