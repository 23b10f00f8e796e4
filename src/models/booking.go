package models

import (
	"atman/src/types"
	"time"
)

// Booking is one customer's claim on a schedule event. Status and
// payment-linked fields are written only by the reconciliation engine.
// SeatHeld records whether this booking currently owns one seat in its
// event's current_participants count; the engine keeps the two in lockstep.
type Booking struct {
	ID              uint                `gorm:"primarykey" json:"id"`
	ScheduleEventID uint                `gorm:"index:ix_bookings_schedule_status" json:"schedule_event_id"`
	Name            string              `gorm:"size:120" json:"name"`
	Phone           string              `gorm:"size:32" json:"phone"`
	Email           string              `gorm:"size:255" json:"email"`
	Comment         *string             `json:"comment,omitempty"`
	Status          types.BookingStatus `gorm:"size:24;default:'pending';index:ix_bookings_schedule_status" json:"status"`

	// payment_status mixes provider vocabulary (waiting_for_capture) with
	// booking-side values (paid, failed, not_required), as reported.
	PaymentStatus          string     `gorm:"size:24;default:'pending'" json:"payment_status"`
	PaymentID              *string    `gorm:"size:128;index" json:"payment_id,omitempty"`
	PaymentAmount          *float64   `gorm:"type:numeric(10,2)" json:"payment_amount,omitempty"`
	PaymentConfirmationURL *string    `json:"payment_confirmation_url,omitempty"`
	PaidAt                 *time.Time `json:"paid_at,omitempty"`
	SeatHeld               bool       `gorm:"default:false" json:"-"`

	ScheduleEvent *ScheduleEvent `gorm:"foreignKey:schedule_event_id;constraint:OnDelete:RESTRICT" json:"schedule_event,omitempty"`
	Payment       *Payment       `gorm:"foreignKey:booking_id" json:"payment,omitempty"`

	types.Timestamps
}
