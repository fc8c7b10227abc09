package models

import (
	"time"

	"gorm.io/gorm"
)

// Serial lifecycle statuses.
const (
	SerialStatusScheduled    = "scheduled"
	SerialStatusInProgress   = "in_progress"
	SerialStatusDispatched   = "dispatched"
	SerialStatusDistribution = "distribution"
	SerialStatusCancelled    = "cancelled"
)

// SerialStatuses lists every valid status, in lifecycle order.
var SerialStatuses = []string{
	SerialStatusScheduled,
	SerialStatusInProgress,
	SerialStatusDispatched,
	SerialStatusDistribution,
	SerialStatusCancelled,
}

// ValidSerialStatus reports whether s is a known status.
func ValidSerialStatus(s string) bool {
	for _, v := range SerialStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Serial is one printed QR label. Code is zero-padded to
// SerialCodeWidth so BETWEEN on the string column is a numeric range
// scan. RequestID is nil until the label is associated.
type Serial struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Code          string         `gorm:"type:varchar(12);uniqueIndex;not null" json:"code"`
	ClientID      uint           `gorm:"not null;index" json:"client_id"`
	ProductID     uint           `gorm:"not null;index" json:"product_id"`
	URL           string         `gorm:"not null" json:"url"`
	Status        string         `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Field1        string         `json:"field1"`
	Field2        string         `json:"field2"`
	Field3        string         `json:"field3"`
	Field4        string         `json:"field4"`
	Field5        string         `json:"field5"`
	RequestID     *uint          `gorm:"index" json:"request_id,omitempty"`
	MaxDeliveries int            `gorm:"not null;default:544" json:"max_deliveries"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Client  Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Product Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Request *Request `gorm:"foreignKey:RequestID" json:"request,omitempty"`
}

// TableName sets the table name.
func (Serial) TableName() string {
	return "serials"
}

// SerialCode returns the code as its value type.
func (s *Serial) SerialCode() SerialCode {
	return SerialCode(s.Code)
}
