package common

import (
	"atman/src/config"
	"atman/src/db"
	"atman/src/lib"
	"atman/src/models"
	"atman/src/types"
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

const sweepBatchSize = 50

// SweepPendingPayments re-polls payments stuck in a non-terminal status and
// feeds the provider's answer through the same reconciliation entry point as
// manual checks and webhooks. Webhook delivery is not guaranteed; this is
// the safety net that eventually converges local state.
func SweepPendingPayments(cfg *config.Config, gw lib.PaymentsGateway) {
	if gw == nil || !cfg.YookassaEnabled() {
		return
	}
	cutoff := time.Now().UTC().Add(-cfg.SweepMinAge)

	var stale []models.Payment
	d := db.GetDb()
	err := d.
		Model(&models.Payment{}).
		Where("status IN ?", []types.PaymentStatus{types.PAYMENT_PENDING, types.PAYMENT_WAITING_CAPTURE}).
		Where("updated_at < ?", cutoff).
		Order("updated_at asc").
		Limit(sweepBatchSize).
		Find(&stale).
		Error
	if err != nil {
		log.Printf("[sweep] Error listing stale payments: %s\n", err.Error())
		return
	}
	if len(stale) == 0 {
		return
	}
	log.Printf("[sweep] Checking %d stale payment(s)\n", len(stale))

	for _, p := range stale {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		result, err := gw.GetPayment(ctx, p.ProviderPaymentID)
		cancel()
		if err != nil {
			log.Printf("[sweep] Error polling payment %s: %s\n", p.ProviderPaymentID, err.Error())
			continue
		}
		err = d.Transaction(func(tx *gorm.DB) error {
			_, err := ApplyPaymentUpdate(tx, p.ProviderPaymentID, PaymentUpdate{
				Status:        result.Status,
				PaymentMethod: result.PaymentMethod,
				Payload:       result.Payload,
				EventType:     "scheduled_status_check",
			})
			return err
		})
		if err != nil {
			if errors.Is(err, types.ErrSeatSettled) {
				log.Printf("[sweep] ANOMALY for payment %s: %s\n", p.ProviderPaymentID, err.Error())
				continue
			}
			log.Printf("[sweep] Error reconciling payment %s: %s\n", p.ProviderPaymentID, err.Error())
		}
	}
}
