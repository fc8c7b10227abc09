package models

import (
	"time"

	"gorm.io/gorm"
)

// Delivery is one proof-of-delivery record for a serial. PhotoPath
// and SignaturePath reference stored evidence objects.
type Delivery struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	RequestID     uint           `gorm:"not null;index" json:"request_id"`
	SerialID      uint           `gorm:"not null;index" json:"serial_id"`
	ReceiverName  string         `gorm:"not null" json:"receiver_name"`
	ReceiverEmail string         `json:"receiver_email"`
	ReceiverPhone string         `json:"receiver_phone"`
	PhotoPath     string         `gorm:"not null" json:"photo_path"`
	SignaturePath string         `gorm:"not null" json:"signature_path"`
	DeliveredAt   time.Time      `gorm:"index" json:"delivered_at"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Request Request `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	Serial  Serial  `gorm:"foreignKey:SerialID" json:"serial,omitempty"`
}

// TableName sets the table name.
func (Delivery) TableName() string {
	return "deliveries"
}
