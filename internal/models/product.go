package models

import (
	"time"

	"gorm.io/gorm"
)

// Default display names for the five per-serial custom fields, used
// when a product does not override them.
const (
	DefaultFieldName1 = "Campo 1"
	DefaultFieldName2 = "Campo 2"
	DefaultFieldName3 = "Campo 3"
	DefaultFieldName4 = "Campo 4"
	DefaultFieldName5 = "Campo 5"
)

// Product is a labeled product line belonging to a client. The five
// FieldName columns are the display names for the custom values each
// serial of this product carries.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	ClientID    uint           `gorm:"not null;index" json:"client_id"`
	TemplateID  *uint          `gorm:"index" json:"template_id,omitempty"`
	Name        string         `gorm:"not null" json:"name"`
	ProductCode string         `gorm:"index" json:"product_code"`
	Description string         `gorm:"type:text" json:"description"`
	FieldName1  string         `json:"field_name1"`
	FieldName2  string         `json:"field_name2"`
	FieldName3  string         `json:"field_name3"`
	FieldName4  string         `json:"field_name4"`
	FieldName5  string         `json:"field_name5"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Client   Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Template *LabelTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// FieldNames returns the five display names with defaults applied.
func (p *Product) FieldNames() [5]string {
	names := [5]string{DefaultFieldName1, DefaultFieldName2, DefaultFieldName3, DefaultFieldName4, DefaultFieldName5}
	if p == nil {
		return names
	}
	overrides := [5]string{p.FieldName1, p.FieldName2, p.FieldName3, p.FieldName4, p.FieldName5}
	for i, v := range overrides {
		if v != "" {
			names[i] = v
		}
	}
	return names
}
