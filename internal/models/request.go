package models

import (
	"time"

	"gorm.io/gorm"
)

// Request is a customer order for labeled tape (solicitud). Code is
// the public identifier printed on paperwork; LogoPath points at the
// stored logo object.
type Request struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	Code               string         `gorm:"uniqueIndex;not null" json:"code"`
	LogoPath           string         `json:"logo_path"`
	AboutUs            string         `gorm:"type:text" json:"about_us"`
	CompanyName        string         `json:"company_name"`
	TaxID              string         `json:"tax_id"`
	Address            string         `json:"address"`
	Phone              string         `json:"phone"`
	Mobile             string         `json:"mobile"`
	Email              string         `json:"email"`
	Website            string         `json:"website"`
	ExtraLink          string         `json:"extra_link"`
	Boxes              int            `gorm:"not null;default:0" json:"boxes"`
	Rolls              int            `gorm:"not null;default:0" json:"rolls"`
	SerialCount        int            `gorm:"not null;default:0" json:"serial_count"`
	ShowDeliveryButton bool           `gorm:"not null;default:false" json:"show_delivery_button"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Locations []Location `gorm:"foreignKey:RequestID" json:"locations,omitempty"`
}

// TableName sets the table name.
func (Request) TableName() string {
	return "requests"
}
