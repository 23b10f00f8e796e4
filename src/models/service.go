package models

import (
	"atman/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Service struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	Slug          string        `gorm:"uniqueIndex;size:120" json:"slug"`
	Title         string        `gorm:"size:255" json:"title"`
	Category      *string       `gorm:"size:64" json:"category,omitempty"`
	CategoryLabel *string       `gorm:"size:128" json:"category_label,omitempty"`
	FormatMode    string        `gorm:"size:32;default:'group_and_individual'" json:"format_mode"`
	Teaser        *string       `json:"teaser,omitempty"`
	Duration      *string       `gorm:"size:64" json:"duration,omitempty"`
	Pricing       types.Pricing `gorm:"type:jsonb" json:"pricing"`

	About             types.JSONBArray `gorm:"type:jsonb" json:"about,omitempty"`
	SuitableFor       types.JSONBArray `gorm:"type:jsonb" json:"suitable_for,omitempty"`
	Host              types.JSONB      `gorm:"type:jsonb" json:"host,omitempty"`
	Important         types.JSONBArray `gorm:"type:jsonb" json:"important,omitempty"`
	DressCode         types.JSONBArray `gorm:"type:jsonb" json:"dress_code,omitempty"`
	Contraindications types.JSONBArray `gorm:"type:jsonb" json:"contraindications,omitempty"`
	Media             types.JSONBArray `gorm:"type:jsonb" json:"media,omitempty"`

	AgeRestriction *string `gorm:"size:32" json:"age_restriction,omitempty"`
	IsDraft        bool    `gorm:"default:false" json:"is_draft"`
	IsActive       bool    `gorm:"default:true" json:"is_active"`

	Schedules []ScheduleEvent `gorm:"foreignKey:service_id" json:"schedules,omitempty"`

	types.Timestamps
}

func (s *Service) BeforeSave(tx *gorm.DB) error {
	if s.Slug == "" {
		s.Slug = slug.Make(s.Title)
	} else {
		s.Slug = slug.Make(s.Slug)
	}
	return nil
}
