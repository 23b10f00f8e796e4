package common

import (
	"atman/src/models"
	"atman/src/types"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentUpdate is one provider-reported status change, regardless of which
// call site delivered it: the create-payment response, a manual status
// check, the scheduled sweep, or an inbound webhook.
type PaymentUpdate struct {
	Status        types.PaymentStatus
	PaymentMethod string
	Payload       types.JSONB
	EventType     string
}

type seatAction int

const (
	seatNone seatAction = iota
	seatReserve
	seatRelease
)

func isTerminal(s types.PaymentStatus) bool {
	switch s {
	case types.PAYMENT_SUCCEEDED, types.PAYMENT_CANCELED, types.PAYMENT_CANCELLED:
		return true
	}
	return false
}

// transition applies one payment update to the payment/booking pair in
// memory and reports which capacity mutation the caller must perform. It is
// the only place booking and payment statuses change.
//
// Rules:
//   - provider metadata (method, raw payload) is last-write-wins;
//   - a non-terminal update arriving after a terminal status is recorded in
//     the audit log but does not regress booking or payment state;
//   - succeeded is idempotent with respect to seats: a booking that already
//     holds its seat is confirmed without reserving again;
//   - canceled releases the booking's seat if it holds one, whether the hold
//     came from creation or from a prior confirmation.
func transition(payment *models.Payment, booking *models.Booking, upd PaymentUpdate, now time.Time) (seatAction, error) {
	if upd.PaymentMethod != "" {
		payment.PaymentMethod = &upd.PaymentMethod
	}
	payment.RawPayload = upd.Payload

	if isTerminal(payment.Status) && !isTerminal(upd.Status) {
		return seatNone, nil
	}
	payment.Status = upd.Status

	switch upd.Status {
	case types.PAYMENT_SUCCEEDED:
		action := seatNone
		if booking.Status != types.BOOKING_CONFIRMED && !booking.SeatHeld {
			action = seatReserve
			booking.SeatHeld = true
		}
		booking.Status = types.BOOKING_CONFIRMED
		booking.PaymentStatus = types.BOOKING_PAYMENT_PAID
		if booking.PaidAt == nil {
			booking.PaidAt = &now
		}
		if payment.PaidAt == nil {
			payment.PaidAt = &now
		}
		return action, nil
	case types.PAYMENT_CANCELED, types.PAYMENT_CANCELLED:
		action := seatNone
		if booking.SeatHeld {
			action = seatRelease
			booking.SeatHeld = false
		}
		booking.Status = types.BOOKING_CANCELLED
		booking.PaymentStatus = types.BOOKING_PAYMENT_FAILED
		return action, nil
	default:
		booking.Status = types.BOOKING_WAITING_PAYMENT
		booking.PaymentStatus = string(upd.Status)
		return seatNone, nil
	}
}

// ApplyPaymentUpdate is the single reconciliation entry point. It loads the
// payment, its booking and the booking's schedule event under row locks,
// applies the transition, performs the required capacity mutation, persists
// all three rows and appends one PaymentLog entry, atomically within tx.
//
// Re-delivery of an already-applied terminal status is a no-op with respect
// to capacity. A succeeded payment that cannot get a seat fails the whole
// operation with ErrSeatSettled and rolls back, leaving the anomaly visible
// for manual follow-up instead of confirming without a seat.
func ApplyPaymentUpdate(tx *gorm.DB, providerPaymentID string, upd PaymentUpdate) (*models.Payment, error) {
	var payment models.Payment
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider_payment_id = ?", providerPaymentID).
		First(&payment).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrPaymentNotFound
		}
		return nil, err
	}

	var booking models.Booking
	err = tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", payment.BookingID).
		First(&booking).
		Error
	if err != nil {
		return nil, err
	}

	event, err := LockScheduleEvent(tx, booking.ScheduleEventID)
	if err != nil {
		return nil, err
	}

	action, err := transition(&payment, &booking, upd, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	switch action {
	case seatReserve:
		if err := ReserveSeat(tx, event); err != nil {
			if errors.Is(err, types.ErrCapacityExceeded) {
				return nil, fmt.Errorf("%w: payment %s", types.ErrSeatSettled, providerPaymentID)
			}
			return nil, err
		}
	case seatRelease:
		if err := ReleaseSeat(tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.
		Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]any{
			"status":         payment.Status,
			"payment_method": payment.PaymentMethod,
			"raw_payload":    payment.RawPayload,
			"paid_at":        payment.PaidAt,
		}).
		Error; err != nil {
		return nil, err
	}

	if err := tx.
		Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Updates(map[string]any{
			"status":         booking.Status,
			"payment_status": booking.PaymentStatus,
			"paid_at":        booking.PaidAt,
			"seat_held":      booking.SeatHeld,
		}).
		Error; err != nil {
		return nil, err
	}

	plog := models.PaymentLog{
		PaymentID: payment.ID,
		EventType: upd.EventType,
		Payload:   upd.Payload,
	}
	if err := tx.Create(&plog).Error; err != nil {
		return nil, err
	}

	payment.Booking = &booking
	return &payment, nil
}
