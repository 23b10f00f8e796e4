package main

import (
	"atman/src/common"
	"atman/src/config"
	"atman/src/lib"
	"atman/src/lib/mailer"
	"atman/src/types"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup, cfg *config.Config) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			booking, err := common.CreateBooking(ctx.Request.Context(), cfg, lib.GetGateway(), &body)
			if err != nil {
				respondError(ctx, err)
				return
			}

			go func() {
				subject := fmt.Sprintf("Новая заявка #%d", booking.ID)
				text := fmt.Sprintf("Заявка #%d: %s, %s, %s", booking.ID, booking.Name, booking.Phone, booking.Email)
				if err := mailer.NotifyAdmin(cfg, subject, text); err != nil {
					log.Printf("Error notifying admin for Booking [%d]: %s\n", booking.ID, err.Error())
				}
			}()

			res := types.APIResponseBookingCreated{
				OK:            true,
				BookingID:     booking.ID,
				PaymentStatus: booking.PaymentStatus,
				Message:       "Бронь создана. Перенаправляем на оплату.",
			}
			if booking.PaymentID != nil {
				res.PaymentID = *booking.PaymentID
			}
			if booking.PaymentConfirmationURL != nil {
				res.ConfirmationURL = *booking.PaymentConfirmationURL
			}
			if booking.PaymentStatus == types.BOOKING_PAYMENT_NOT_REQUIRED {
				res.Message = "Бронь подтверждена. Оплата не требуется."
			}
			ctx.JSON(http.StatusOK, res)
		})
	return g
}
