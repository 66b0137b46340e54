package domain

import "time"

// Address coordinates stay nil until geocoding succeeds. A nil pair is a
// valid persisted state, not an error.
type Address struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Street    string    `json:"street" gorm:"column:street"`
	Ward      string    `json:"ward" gorm:"column:ward"`
	District  string    `json:"district" gorm:"column:district"`
	City      string    `json:"city" gorm:"column:city"`
	Latitude  *float64  `json:"latitude" gorm:"column:latitude"`
	Longitude *float64  `json:"longitude" gorm:"column:longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Address) TableName() string {
	return "addresses"
}

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}
