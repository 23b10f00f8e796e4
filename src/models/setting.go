package models

import "atman/src/types"

type Setting struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	Key      string  `gorm:"uniqueIndex;size:128" json:"key"`
	Value    *string `json:"value,omitempty"`
	IsPublic bool    `gorm:"default:true" json:"is_public"`

	types.Timestamps
}
