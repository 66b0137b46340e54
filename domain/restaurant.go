package domain

import "time"

type RestaurantStatus string

const (
	RestaurantPending  RestaurantStatus = "PENDING"
	RestaurantApproved RestaurantStatus = "APPROVED"
	RestaurantRejected RestaurantStatus = "REJECTED"
)

type Restaurant struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	Name           string           `json:"name" gorm:"column:name;not null"`
	Description    string           `json:"description" gorm:"column:description"`
	AvatarURL      string           `json:"avatar_url" gorm:"column:avatar_url"`
	BackgroundURL  string           `json:"background_url" gorm:"column:background_url"`
	CertificateURL string           `json:"certificate_url" gorm:"column:certificate_url"`
	Status         RestaurantStatus `json:"status" gorm:"column:status;default:PENDING"`
	OpenTime       string           `json:"open_time" gorm:"column:open_time"`
	CloseTime      string           `json:"close_time" gorm:"column:close_time"`
	OwnerID        string           `json:"owner_id" gorm:"column:owner_id;not null;size:28"`
	Owner          User             `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	AddressID      uint             `json:"address_id" gorm:"column:address_id"`
	Address        Address          `json:"address,omitempty" gorm:"foreignKey:AddressID"`
	Foods          []Food           `json:"foods,omitempty" gorm:"foreignKey:RestaurantID"`
	Orders         []Order          `json:"orders,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

type Food struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	RestaurantID uint    `json:"restaurant_id" gorm:"column:restaurant_id;not null"`
	Name         string  `json:"name" gorm:"column:name;not null"`
	Description  string  `json:"description" gorm:"column:description"`
	Price        float64 `json:"price" gorm:"column:price;not null"`
	Available    bool    `json:"available" gorm:"column:available;default:true"`
}

func (Food) TableName() string {
	return "foods"
}
