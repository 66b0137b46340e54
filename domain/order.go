package domain

import "time"

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "PLACED"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	RestaurantID uint        `json:"restaurant_id" gorm:"column:restaurant_id;not null"`
	UserID       string      `json:"user_id" gorm:"column:user_id;not null;size:28"`
	User         User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Total        float64     `json:"total" gorm:"column:total"`
	Status       OrderStatus `json:"status" gorm:"column:status;default:PLACED"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
