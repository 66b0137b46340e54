package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	AuthProviderLocal  = "LOCAL"
	AuthProviderGoogle = "GOOGLE"
)

// User identifiers are strings so that accounts linked to an upstream
// identity provider keep the externally issued id. Locally registered
// accounts get a generated 28-character id once, at creation.
type User struct {
	ID           string         `json:"id" gorm:"column:id;primaryKey;size:28"`
	Username     string         `json:"username" gorm:"column:username;unique;not null"`
	Email        string         `json:"email" gorm:"column:email;unique;not null"`
	FullName     string         `json:"full_name" gorm:"column:full_name"`
	Password     string         `json:"-" gorm:"column:password;not null"`
	RoleID       uint           `json:"role_id" gorm:"column:role_id;not null"`
	Role         Role           `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	AuthProvider string         `json:"auth_provider" gorm:"column:auth_provider;default:LOCAL"`
	IsVerified   bool           `json:"is_verified" gorm:"column:is_verified;default:false"`
	LastLogin    *time.Time     `json:"last_login" gorm:"column:last_login"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// UserView is the projection returned by list endpoints and any read path
// that leaves the service layer. It never carries the password hash.
type UserView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	Status    string `json:"status"`
}
