package models

import (
	"time"

	"gorm.io/gorm"
)

// Client owns a set of labeled products and a public landing slug.
type Client struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Slug       string         `gorm:"uniqueIndex;not null" json:"slug"` // landing URL segment
	ClientCode string         `gorm:"index" json:"client_code"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Client) TableName() string {
	return "clients"
}
