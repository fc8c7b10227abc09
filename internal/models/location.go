package models

import "time"

// Location is a pickup or distribution point attached to a request.
type Location struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RequestID uint      `gorm:"not null;index" json:"request_id"`
	Address   string    `gorm:"not null" json:"address"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Location) TableName() string {
	return "locations"
}
