package domain

const (
	RoleUser    = "USER"
	RoleAdmin   = "ADMIN"
	RoleOwner   = "RESTAURANT_OWNER"
	RoleShipper = "SHIPPER"
)

// Named permissions checked per endpoint by the authorization middleware.
const (
	PermUserRead          = "user.read"
	PermUserWrite         = "user.write"
	PermUserDelete        = "user.delete"
	PermRestaurantCreate  = "restaurant.create"
	PermRestaurantApprove = "restaurant.approve"
	PermShippingAssign    = "shipping.assign"
	PermShippingUpdate    = "shipping.update"
)

type Role struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"column:name;unique;not null"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"column:name;unique;not null"`
}

func (Permission) TableName() string {
	return "permissions"
}
