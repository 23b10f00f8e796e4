package models

import "atman/src/types"

type GalleryItem struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Title       string  `gorm:"size:255" json:"title"`
	Description *string `json:"description,omitempty"`
	ImagePath   string  `gorm:"size:512" json:"image_path"`
	Category    *string `gorm:"size:80;index:ix_gallery_category_active" json:"category,omitempty"`
	SortOrder   int     `gorm:"default:0" json:"sort_order"`
	IsActive    bool    `gorm:"default:true;index:ix_gallery_category_active" json:"is_active"`

	types.Timestamps
}
