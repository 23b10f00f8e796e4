package common

import (
	"atman/src/models"
	"atman/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pendingPair() (models.Payment, models.Booking) {
	payment := models.Payment{
		ID:                1,
		BookingID:         1,
		ProviderPaymentID: "pay-1",
		Status:            types.PAYMENT_PENDING,
	}
	booking := models.Booking{
		ID:              1,
		ScheduleEventID: 1,
		Status:          types.BOOKING_WAITING_PAYMENT,
		PaymentStatus:   string(types.PAYMENT_PENDING),
		SeatHeld:        true,
	}
	return payment, booking
}

func TestTransitionSucceededWithCreationHold(t *testing.T) {
	payment, booking := pendingPair()
	now := time.Now().UTC()

	action, err := transition(&payment, &booking, PaymentUpdate{
		Status:        types.PAYMENT_SUCCEEDED,
		PaymentMethod: "bank_card",
		Payload:       types.JSONB{"id": "pay-1"},
	}, now)

	assert.Nil(t, err)
	assert.Equal(t, seatNone, action)
	assert.Equal(t, types.PAYMENT_SUCCEEDED, payment.Status)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	assert.Equal(t, types.BOOKING_PAYMENT_PAID, booking.PaymentStatus)
	assert.True(t, booking.SeatHeld)
	assert.NotNil(t, booking.PaidAt)
	assert.NotNil(t, payment.PaidAt)
	assert.Equal(t, "bank_card", *payment.PaymentMethod)
}

func TestTransitionSucceededWithoutHoldReserves(t *testing.T) {
	payment, booking := pendingPair()
	booking.SeatHeld = false

	action, err := transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_SUCCEEDED}, time.Now().UTC())

	assert.Nil(t, err)
	assert.Equal(t, seatReserve, action)
	assert.True(t, booking.SeatHeld)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
}

func TestTransitionSucceededIsIdempotent(t *testing.T) {
	payment, booking := pendingPair()
	now := time.Now().UTC()

	action, err := transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_SUCCEEDED}, now)
	assert.Nil(t, err)
	assert.Equal(t, seatNone, action)
	firstPaidAt := *booking.PaidAt

	later := now.Add(time.Hour)
	action, err = transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_SUCCEEDED}, later)
	assert.Nil(t, err)
	assert.Equal(t, seatNone, action)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	assert.Equal(t, firstPaidAt, *booking.PaidAt)
}

func TestTransitionStaleNonTerminalAfterSucceeded(t *testing.T) {
	payment, booking := pendingPair()
	now := time.Now().UTC()

	_, err := transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_SUCCEEDED}, now)
	assert.Nil(t, err)

	// A delayed waiting_for_capture must not regress the confirmed state.
	action, err := transition(&payment, &booking, PaymentUpdate{
		Status:  types.PAYMENT_WAITING_CAPTURE,
		Payload: types.JSONB{"stale": true},
	}, now.Add(time.Minute))

	assert.Nil(t, err)
	assert.Equal(t, seatNone, action)
	assert.Equal(t, types.PAYMENT_SUCCEEDED, payment.Status)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	assert.Equal(t, types.BOOKING_PAYMENT_PAID, booking.PaymentStatus)
	// Metadata is still last-write-wins.
	assert.Equal(t, true, payment.RawPayload["stale"])
}

func TestTransitionCanceledReleasesHold(t *testing.T) {
	payment, booking := pendingPair()

	action, err := transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_CANCELED}, time.Now().UTC())

	assert.Nil(t, err)
	assert.Equal(t, seatRelease, action)
	assert.False(t, booking.SeatHeld)
	assert.Equal(t, types.BOOKING_CANCELLED, booking.Status)
	assert.Equal(t, types.BOOKING_PAYMENT_FAILED, booking.PaymentStatus)
}

func TestTransitionCancelledSpellingVariant(t *testing.T) {
	payment, booking := pendingPair()

	action, err := transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_CANCELLED}, time.Now().UTC())

	assert.Nil(t, err)
	assert.Equal(t, seatRelease, action)
	assert.Equal(t, types.BOOKING_CANCELLED, booking.Status)
}

func TestTransitionCanceledWithoutHold(t *testing.T) {
	payment, booking := pendingPair()
	booking.SeatHeld = false

	action, err := transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_CANCELED}, time.Now().UTC())

	assert.Nil(t, err)
	assert.Equal(t, seatNone, action)
	assert.Equal(t, types.BOOKING_CANCELLED, booking.Status)
}

func TestTransitionNonTerminalPassthrough(t *testing.T) {
	payment, booking := pendingPair()

	action, err := transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_WAITING_CAPTURE}, time.Now().UTC())

	assert.Nil(t, err)
	assert.Equal(t, seatNone, action)
	assert.Equal(t, types.PAYMENT_WAITING_CAPTURE, payment.Status)
	assert.Equal(t, types.BOOKING_WAITING_PAYMENT, booking.Status)
	assert.Equal(t, "waiting_for_capture", booking.PaymentStatus)
}

func TestTransitionCancelThenLateSucceeded(t *testing.T) {
	// canceled released the creation hold; a later succeeded for the same
	// payment claims a seat again. Whether that seat is still available is
	// the caller's problem (ErrSeatSettled when the event refilled).
	payment, booking := pendingPair()
	now := time.Now().UTC()

	action, err := transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_CANCELED}, now)
	assert.Nil(t, err)
	assert.Equal(t, seatRelease, action)

	action, err = transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_SUCCEEDED}, now.Add(time.Minute))
	assert.Nil(t, err)
	assert.Equal(t, seatReserve, action)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	assert.Equal(t, types.BOOKING_PAYMENT_PAID, booking.PaymentStatus)
}

func TestTransitionRoundTrip(t *testing.T) {
	// pending -> waiting_for_capture -> succeeded, as a webhook sequence
	// would deliver it.
	payment, booking := pendingPair()
	now := time.Now().UTC()

	action, err := transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_WAITING_CAPTURE}, now)
	assert.Nil(t, err)
	assert.Equal(t, seatNone, action)
	assert.Equal(t, types.BOOKING_WAITING_PAYMENT, booking.Status)

	action, err = transition(&payment, &booking, PaymentUpdate{Status: types.PAYMENT_SUCCEEDED}, now.Add(time.Minute))
	assert.Nil(t, err)
	assert.Equal(t, seatNone, action)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	assert.True(t, booking.SeatHeld)
}
