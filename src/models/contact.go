package models

import "atman/src/types"

type Contact struct {
	ID      uint                `gorm:"primarykey" json:"id"`
	Name    string              `gorm:"size:120" json:"name"`
	Email   string              `gorm:"size:255" json:"email"`
	Phone   *string             `gorm:"size:32" json:"phone,omitempty"`
	Message string              `json:"message"`
	Status  types.ContactStatus `gorm:"size:24;default:'new'" json:"status"`

	types.Timestamps
}
