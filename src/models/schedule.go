package models

import (
	"atman/src/types"
	"time"
)

// ScheduleEvent is a bookable time slot. current_participants is mutated
// only through the capacity ledger and must stay within
// [0, max_participants].
type ScheduleEvent struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	ServiceID           uint      `gorm:"index:ix_schedule_service_start" json:"service_id"`
	StartTime           time.Time `gorm:"index:ix_schedule_service_start" json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	MaxParticipants     int       `gorm:"default:1" json:"max_participants"`
	CurrentParticipants int       `gorm:"default:0" json:"current_participants"`
	IsIndividual        bool      `gorm:"default:false" json:"is_individual"`
	IsActive            bool      `gorm:"default:true" json:"is_active"`

	Service  *Service   `gorm:"foreignKey:service_id;constraint:OnDelete:CASCADE" json:"service,omitempty"`
	Bookings []*Booking `gorm:"foreignKey:schedule_event_id" json:"bookings,omitempty"`

	types.Timestamps
}

func (e *ScheduleEvent) AvailableSpots() int {
	spots := e.MaxParticipants - e.CurrentParticipants
	if spots < 0 {
		return 0
	}
	return spots
}
