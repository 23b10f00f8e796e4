package main

import (
	"atman/src/common"
	"atman/src/config"
	"atman/src/db"
	"atman/src/lib"
	"atman/src/models"
	"atman/src/types"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

// verifyWebhookSignature checks the legacy X-Payment-Sha1-Hash HMAC against
// the shared webhook secret. An empty secret disables verification.
func verifyWebhookSignature(secret string, rawBody []byte, signature string) bool {
	if secret == "" {
		return true
	}
	if signature == "" {
		return false
	}
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

func buildRedirectURL(cfg *config.Config, paymentID string, status types.PaymentStatus) *string {
	base := strings.TrimRight(cfg.YookassaReturnURL, "/")
	var url string
	switch status {
	case types.PAYMENT_SUCCEEDED:
		url = fmt.Sprintf("%s/payment/success?payment_id=%s", base, paymentID)
	case types.PAYMENT_WAITING_CAPTURE:
		url = fmt.Sprintf("%s/payment/waiting?payment_id=%s", base, paymentID)
	case types.PAYMENT_CANCELED, types.PAYMENT_CANCELLED:
		url = fmt.Sprintf("%s/payment/failed?payment_id=%s", base, paymentID)
	default:
		return nil
	}
	return &url
}

func paymentHandlers(g *gin.RouterGroup, cfg *config.Config) *gin.RouterGroup {
	g.
		GET("/payments/:id/status", func(ctx *gin.Context) {
			providerPaymentID := ctx.Param("id")

			d := db.GetDb()
			var payment models.Payment
			if err := d.
				Model(&models.Payment{}).
				Where("provider_payment_id = ?", providerPaymentID).
				First(&payment).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					respondError(ctx, types.ErrPaymentNotFound)
					return
				}
				respondError(ctx, err)
				return
			}

			gw := lib.GetGateway()
			if gw == nil || !cfg.YookassaEnabled() {
				respondError(ctx, types.ErrGatewayNotConfigured)
				return
			}
			result, err := gw.GetPayment(ctx.Request.Context(), providerPaymentID)
			if err != nil {
				respondError(ctx, err)
				return
			}

			var updated *models.Payment
			err = d.Transaction(func(tx *gorm.DB) error {
				updated, err = common.ApplyPaymentUpdate(tx, providerPaymentID, common.PaymentUpdate{
					Status:        result.Status,
					PaymentMethod: result.PaymentMethod,
					Payload:       result.Payload,
					EventType:     "manual_status_check",
				})
				return err
			})
			if err != nil {
				respondError(ctx, err)
				return
			}

			ctx.JSON(http.StatusOK, types.APIResponsePaymentStatus{
				PaymentID:     providerPaymentID,
				Status:        string(result.Status),
				BookingStatus: string(updated.Booking.Status),
				RedirectURL:   buildRedirectURL(cfg, providerPaymentID, result.Status),
			})
		}).
		POST("/payments/webhook", func(ctx *gin.Context) {
			rawBody, err := io.ReadAll(ctx.Request.Body)
			if err != nil {
				log.Printf("Error reading request body: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !verifyWebhookSignature(cfg.YookassaWebhookSecret, rawBody, ctx.GetHeader("X-Payment-Sha1-Hash")) {
				log.Println("Error verifying webhook signature")
				respondError(ctx, types.ErrSignatureInvalid)
				return
			}

			if !gjson.ValidBytes(rawBody) {
				respondError(ctx, types.ErrMalformedWebhook)
				return
			}
			var envelope types.PaymentWebhookEnvelope
			if err := json.Unmarshal(rawBody, &envelope); err != nil {
				respondError(ctx, types.ErrMalformedWebhook)
				return
			}
			providerPaymentID := gjson.GetBytes(rawBody, "object.id").String()
			status := strings.TrimSpace(gjson.GetBytes(rawBody, "object.status").String())
			if providerPaymentID == "" || status == "" {
				respondError(ctx, types.ErrMalformedWebhook)
				return
			}
			paymentMethod := gjson.GetBytes(rawBody, "object.payment_method.type").String()

			var payload types.JSONB
			if err := json.Unmarshal(rawBody, &payload); err != nil {
				respondError(ctx, types.ErrMalformedWebhook)
				return
			}

			log.Printf("[PaymentWebhook] %s %s %s\n", envelope.Event, providerPaymentID, status)
			d := db.GetDb()
			err = d.Transaction(func(tx *gorm.DB) error {
				_, err := common.ApplyPaymentUpdate(tx, providerPaymentID, common.PaymentUpdate{
					Status:        types.PaymentStatus(status),
					PaymentMethod: paymentMethod,
					Payload:       payload,
					EventType:     envelope.Event,
				})
				return err
			})
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"ok": true})
		})
	return g
}
