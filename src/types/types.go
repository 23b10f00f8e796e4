package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// Pricing is the per-service price sheet. Exactly which variant applies
// depends on the schedule event format: individual events read Individual,
// group events read Group, and Fixed is the fallback for both.
type Pricing struct {
	Group      *GroupPricing      `json:"group,omitempty"`
	Individual *IndividualPricing `json:"individual,omitempty"`
	Fixed      *FixedPricing      `json:"fixed,omitempty"`
}

type GroupPricing struct {
	PricePerPerson *float64 `json:"price_per_person,omitempty"`
}

type IndividualPricing struct {
	Price *float64 `json:"price,omitempty"`
}

type FixedPricing struct {
	Price *float64 `json:"price,omitempty"`
}

func (p Pricing) Value() (driver.Value, error) {
	valueString, err := json.Marshal(p)
	return string(valueString), err
}
func (p *Pricing) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	return nil
}

type BookingStatus string

const (
	BOOKING_PENDING         BookingStatus = "pending"
	BOOKING_WAITING_PAYMENT BookingStatus = "waiting_payment"
	BOOKING_CONFIRMED       BookingStatus = "confirmed"
	BOOKING_CANCELLED       BookingStatus = "cancelled"
)

// PaymentStatus carries the provider's own vocabulary. The engine never
// invents a status the provider did not report.
type PaymentStatus string

const (
	PAYMENT_PENDING         PaymentStatus = "pending"
	PAYMENT_WAITING_CAPTURE PaymentStatus = "waiting_for_capture"
	PAYMENT_SUCCEEDED       PaymentStatus = "succeeded"
	PAYMENT_CANCELED        PaymentStatus = "canceled"
	// Some provider payloads spell the terminal failure the British way.
	PAYMENT_CANCELLED PaymentStatus = "cancelled"
)

// Booking.payment_status values that are not provider statuses.
const (
	BOOKING_PAYMENT_PENDING      = "pending"
	BOOKING_PAYMENT_NOT_REQUIRED = "not_required"
	BOOKING_PAYMENT_PAID         = "paid"
	BOOKING_PAYMENT_FAILED       = "failed"
)

type ContactStatus string

const (
	CONTACT_NEW       ContactStatus = "new"
	CONTACT_PROCESSED ContactStatus = "processed"
)

type CreateBookingRequestBody struct {
	ScheduleID    uint   `json:"schedule_id" binding:"required"`
	Name          string `json:"name" binding:"required,min=2,max=120"`
	Phone         string `json:"phone" binding:"required,phone"`
	Email         string `json:"email" binding:"required,email"`
	Comment       string `json:"comment,omitempty" binding:"omitempty,max=1000"`
	PrivacyPolicy bool   `json:"privacy_policy,omitempty"`
	PersonalData  bool   `json:"personal_data,omitempty"`
	Terms         bool   `json:"terms,omitempty"`
}

type CreateContactRequestBody struct {
	Name    string `json:"name" form:"name" binding:"required,min=2,max=120"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Phone   string `json:"phone,omitempty" form:"phone" binding:"omitempty,phone"`
	Message string `json:"message" form:"message" binding:"required,min=5,max=4000"`
}

type PaymentWebhookEnvelope struct {
	Event  string `json:"event"`
	Object JSONB  `json:"object"`
}

type APIResponseBookingCreated struct {
	OK              bool   `json:"ok"`
	BookingID       uint   `json:"booking_id"`
	PaymentID       string `json:"payment_id,omitempty"`
	PaymentStatus   string `json:"payment_status"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
	Message         string `json:"message"`
}

type APIResponsePaymentStatus struct {
	PaymentID     string  `json:"payment_id"`
	Status        string  `json:"status"`
	BookingStatus string  `json:"booking_status"`
	RedirectURL   *string `json:"redirect_url,omitempty"`
}

type APIResponseContact struct {
	OK      bool   `json:"ok"`
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

type APIResponseSchedule struct {
	ID                  uint      `json:"id"`
	ServiceID           uint      `json:"service_id"`
	ServiceSlug         string    `json:"service_slug"`
	ServiceTitle        string    `json:"service_title"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	AvailableSpots      int       `json:"available_spots"`
	IsIndividual        bool      `json:"is_individual"`
	IsActive            bool      `json:"is_active"`
}

type APIResponseLegalPage struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
