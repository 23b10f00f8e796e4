package lib

import (
	"atman/src/config"
	"atman/src/types"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	return &config.Config{
		YookassaShopID:    "123456",
		YookassaSecretKey: "test_secret",
		YookassaReturnURL: "http://localhost:5173",
	}
}

func TestCreatePaymentSendsAuthAndIdempotenceKey(t *testing.T) {
	var gotAuth, gotIdemKey, gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotIdemKey = r.Header.Get("Idempotence-Key")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "2e4f7a1b-000f-5000-8000-1b68e7b15f3f",
			"status": "pending",
			"confirmation": map[string]any{
				"type":             "redirect",
				"confirmation_url": "https://yoomoney.ru/checkout/payments/v2/contract",
			},
		})
	}))
	defer srv.Close()

	client := NewYookassaClientWithBaseURL(testConfig(), srv.URL)
	result, err := client.CreatePayment(context.Background(), 42, 1500, "Оплата: Гвоздестояние (01.09.2026 18:00)")

	assert.Nil(t, err)
	assert.Equal(t, "/payments", gotPath)
	// shopID:secretKey, base64 encoded.
	assert.Equal(t, "Basic MTIzNDU2OnRlc3Rfc2VjcmV0", gotAuth)
	assert.NotEmpty(t, gotIdemKey)

	amount := gotBody["amount"].(map[string]any)
	assert.Equal(t, "1500.00", amount["value"])
	assert.Equal(t, "RUB", amount["currency"])
	metadata := gotBody["metadata"].(map[string]any)
	assert.Equal(t, "42", metadata["booking_id"])

	assert.Equal(t, "2e4f7a1b-000f-5000-8000-1b68e7b15f3f", result.PaymentID)
	assert.Equal(t, types.PAYMENT_PENDING, result.Status)
	assert.Equal(t, "https://yoomoney.ru/checkout/payments/v2/contract", result.ConfirmationURL)
}

func TestGetPaymentParsesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payments/pay-9", r.URL.Path)
		assert.Empty(t, r.Header.Get("Idempotence-Key"))
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pay-9",
			"status": "succeeded",
			"payment_method": map[string]any{
				"type": "bank_card",
			},
		})
	}))
	defer srv.Close()

	client := NewYookassaClientWithBaseURL(testConfig(), srv.URL)
	result, err := client.GetPayment(context.Background(), "pay-9")

	assert.Nil(t, err)
	assert.Equal(t, types.PAYMENT_SUCCEEDED, result.Status)
	assert.Equal(t, "bank_card", result.PaymentMethod)
}

func TestGatewayErrorOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"type": "error", "code": "invalid_credentials"})
	}))
	defer srv.Close()

	client := NewYookassaClientWithBaseURL(testConfig(), srv.URL)
	_, err := client.GetPayment(context.Background(), "pay-9")

	assert.ErrorIs(t, err, types.ErrGateway)
}

func TestGatewayErrorOnMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "pay-9"})
	}))
	defer srv.Close()

	client := NewYookassaClientWithBaseURL(testConfig(), srv.URL)
	_, err := client.GetPayment(context.Background(), "pay-9")

	assert.ErrorIs(t, err, types.ErrGateway)
}

func TestGatewayErrorOnUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewYookassaClientWithBaseURL(testConfig(), srv.URL)
	_, err := client.GetPayment(context.Background(), "pay-9")

	assert.ErrorIs(t, err, types.ErrGateway)
}
