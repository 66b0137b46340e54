package domain

import "time"

type ShippingStatus string

const (
	ShippingPending   ShippingStatus = "PENDING"
	ShippingShipping  ShippingStatus = "SHIPPING"
	ShippingDelivered ShippingStatus = "DELIVERED"
	ShippingCancelled ShippingStatus = "CANCELLED"
	ShippingReturned  ShippingStatus = "RETURNED"
)

// ShippingDetail links one shipper to one order. The unique index on
// order_id backs the one-record-per-order invariant.
type ShippingDetail struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Status    ShippingStatus `json:"status" gorm:"column:status;default:PENDING"`
	ShipperID string         `json:"shipper_id" gorm:"column:shipper_id;not null;size:28"`
	Shipper   User           `json:"shipper,omitempty" gorm:"foreignKey:ShipperID"`
	OrderID   uint           `json:"order_id" gorm:"column:order_id;uniqueIndex;not null"`
	Order     Order          `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (ShippingDetail) TableName() string {
	return "shipping_details"
}
