package common

import (
	"atman/src/config"
	"atman/src/db"
	"atman/src/lib"
	"atman/src/models"
	"atman/src/types"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

// CreateBooking is the producer side of the reconciliation flow. It locks
// the target event row, validates it, resolves the price, creates the
// booking with a tentative seat hold, creates the remote payment through the
// gateway and persists the local payment, all inside one transaction, so a
// gateway failure rolls back the booking and the seat hold together.
func CreateBooking(ctx context.Context, cfg *config.Config, gw lib.PaymentsGateway, body *types.CreateBookingRequestBody) (*models.Booking, error) {
	if !(body.PrivacyPolicy && body.PersonalData && body.Terms) {
		return nil, types.ErrConsent
	}

	var booking models.Booking
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		event, err := LockScheduleEvent(tx, body.ScheduleID)
		if err != nil {
			return err
		}
		if !event.IsActive {
			return types.ErrEventInactive
		}
		if event.IsIndividual && !cfg.AllowIndividualBooking {
			return types.ErrIndividualBooking
		}

		var service models.Service
		if err := tx.
			Where("id = ?", event.ServiceID).
			First(&service).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrServiceNotFound
			}
			return err
		}

		amount, err := ResolveAmount(&service, event)
		if err != nil {
			return err
		}

		// Seats are held at creation time; a later canceled payment releases
		// the hold through the reconciliation engine.
		if err := ReserveSeat(tx, event); err != nil {
			return err
		}

		comment := strings.TrimSpace(body.Comment)
		booking = models.Booking{
			ScheduleEventID: event.ID,
			Name:            strings.TrimSpace(body.Name),
			Phone:           strings.TrimSpace(body.Phone),
			Email:           body.Email,
			Status:          types.BOOKING_PENDING,
			PaymentStatus:   types.BOOKING_PAYMENT_PENDING,
			PaymentAmount:   &amount,
			SeatHeld:        true,
		}
		if comment != "" {
			booking.Comment = &comment
		}

		if event.IsIndividual {
			// Individual sessions skip the payment flow entirely.
			booking.Status = types.BOOKING_CONFIRMED
			booking.PaymentStatus = types.BOOKING_PAYMENT_NOT_REQUIRED
			return tx.Create(&booking).Error
		}

		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		if gw == nil || !cfg.YookassaEnabled() {
			return types.ErrGatewayNotConfigured
		}
		description := fmt.Sprintf("Оплата: %s (%s)", service.Title, event.StartTime.Format("02.01.2006 15:04"))
		result, err := gw.CreatePayment(ctx, booking.ID, amount, description)
		if err != nil {
			log.Printf("Error creating payment for Booking [%d]: %s\n", booking.ID, err.Error())
			return err
		}

		payment := models.Payment{
			BookingID:         booking.ID,
			Provider:          "yookassa",
			ProviderPaymentID: result.PaymentID,
			Amount:            amount,
			Currency:          "RUB",
			Status:            result.Status,
			RawPayload:        result.Payload,
		}
		if result.PaymentMethod != "" {
			payment.PaymentMethod = &result.PaymentMethod
		}
		if result.ConfirmationURL != "" {
			payment.ConfirmationURL = &result.ConfirmationURL
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		booking.PaymentID = &result.PaymentID
		booking.PaymentStatus = string(result.Status)
		booking.Status = types.BOOKING_WAITING_PAYMENT
		if result.ConfirmationURL != "" {
			booking.PaymentConfirmationURL = &result.ConfirmationURL
		}
		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Updates(map[string]any{
				"payment_id":               booking.PaymentID,
				"payment_status":           booking.PaymentStatus,
				"payment_confirmation_url": booking.PaymentConfirmationURL,
				"status":                   booking.Status,
			}).
			Error; err != nil {
			return err
		}

		plog := models.PaymentLog{
			PaymentID: payment.ID,
			EventType: "payment_created",
			Payload:   result.Payload,
		}
		return tx.Create(&plog).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
