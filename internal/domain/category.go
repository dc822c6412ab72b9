package domain

import (
	"time"

	"gorm.io/gorm"
)

// Category is a node of the category forest. A nil ParentID marks a root.
type Category struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"column:name;size:255;not null" json:"name"`
	Description   string    `gorm:"column:description;type:text" json:"description,omitempty"`
	ParentID      *uint     `gorm:"column:parent_id;index" json:"parent_id"`
	IsSubcategory bool      `gorm:"column:is_subcategory;not null;default:false" json:"is_subcategory"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`

	Subcategories []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// BeforeSave keeps is_subcategory in step with the parent link.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.IsSubcategory = c.ParentID != nil
	return nil
}
