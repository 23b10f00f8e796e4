package types

import "errors"

// Sentinel errors for the booking/payment core. Handlers translate these to
// HTTP statuses at the boundary; nothing below the handlers maps or swallows
// them.
var (
	ErrScheduleNotFound = errors.New("schedule event not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrServiceNotFound  = errors.New("service not found")

	ErrEventInactive     = errors.New("schedule event is not active")
	ErrIndividualBooking = errors.New("individual sessions are booked directly with the administrator")
	ErrCapacityExceeded  = errors.New("no seats available")

	// ErrSeatSettled is the operational anomaly: the provider reports the
	// payment as settled but the event has no seat left. Surfaced as a
	// conflict for manual operator follow-up, never downgraded.
	ErrSeatSettled = errors.New("payment settled but no seat available, manual review required")

	ErrNoPrice = errors.New("service has no price configured")
	ErrConsent = errors.New("privacy policy, personal data and terms consent are required")

	ErrGateway              = errors.New("payment gateway unavailable")
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured")

	ErrSignatureInvalid = errors.New("invalid webhook signature")
	ErrMalformedWebhook = errors.New("malformed webhook payload")
)
