package models

import (
	"regexp"
	"time"

	"gorm.io/gorm"
)

// TemplateNamePattern restricts template names to filesystem-safe tokens.
var TemplateNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// LabelTemplate is a per-client landing page template.
type LabelTemplate struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ClientID  uint           `gorm:"not null;index:idx_templates_client_name,unique" json:"client_id"`
	Name      string         `gorm:"not null;index:idx_templates_client_name,unique" json:"name"`
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Client Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName sets the table name.
func (LabelTemplate) TableName() string {
	return "label_templates"
}
