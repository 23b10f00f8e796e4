package main

import (
	"atman/src/types"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps core errors to HTTP statuses at the boundary. Nothing
// below the handlers writes HTTP responses.
func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrConsent), errors.Is(err, types.ErrNoPrice):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrScheduleNotFound),
		errors.Is(err, types.ErrPaymentNotFound),
		errors.Is(err, types.ErrServiceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrSeatSettled),
		errors.Is(err, types.ErrCapacityExceeded),
		errors.Is(err, types.ErrEventInactive),
		errors.Is(err, types.ErrIndividualBooking):
		status = http.StatusConflict
	case errors.Is(err, types.ErrGatewayNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, types.ErrGateway):
		status = http.StatusBadGateway
	case errors.Is(err, types.ErrSignatureInvalid):
		status = http.StatusUnauthorized
	case errors.Is(err, types.ErrMalformedWebhook):
		status = http.StatusBadRequest
	default:
		log.Printf("Could not complete request: %s\n", err.Error())
		ctx.JSON(status, gin.H{"error": "Error while processing request"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
