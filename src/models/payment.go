package models

import (
	"atman/src/types"
	"time"
)

// Payment mirrors the provider-side payment object, 1:1 with a booking.
// Status is always the last value the provider reported; raw_payload is the
// full provider response at that moment, replaced on every reconciliation.
type Payment struct {
	ID                uint                `gorm:"primarykey" json:"id"`
	BookingID         uint                `gorm:"uniqueIndex:uq_payment_booking" json:"booking_id"`
	Provider          string              `gorm:"size:32;default:'yookassa'" json:"provider"`
	ProviderPaymentID string              `gorm:"size:128;uniqueIndex:uq_provider_payment_id" json:"provider_payment_id"`
	Amount            float64             `gorm:"type:numeric(10,2)" json:"amount"`
	Currency          string              `gorm:"size:3;default:'RUB'" json:"currency"`
	Status            types.PaymentStatus `gorm:"size:32;default:'pending'" json:"status"`
	PaymentMethod     *string             `gorm:"size:64" json:"payment_method,omitempty"`
	ConfirmationURL   *string             `json:"confirmation_url,omitempty"`
	PaidAt            *time.Time          `json:"paid_at,omitempty"`
	RawPayload        types.JSONB         `gorm:"type:jsonb" json:"raw_payload,omitempty"`

	Booking *Booking     `gorm:"foreignKey:booking_id;constraint:OnDelete:CASCADE" json:"-"`
	Logs    []PaymentLog `gorm:"foreignKey:payment_id" json:"logs,omitempty"`

	types.Timestamps
}

// PaymentLog is the append-only audit trail, one row per reconciliation
// event. Never updated, never read back by the engine.
type PaymentLog struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	PaymentID uint        `json:"payment_id"`
	EventType string      `gorm:"size:64" json:"event_type"`
	Payload   types.JSONB `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt time.Time   `gorm:"autoCreateTime:nano" json:"created_at"`

	Payment *Payment `gorm:"foreignKey:payment_id;constraint:OnDelete:CASCADE" json:"-"`
}
