package lib

import (
	"atman/src/config"
	"atman/src/types"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const yookassaAPIBase = "https://api.yookassa.ru/v3"

// PaymentResult is the normalized provider response the core depends on.
type PaymentResult struct {
	PaymentID       string
	Status          types.PaymentStatus
	ConfirmationURL string
	PaymentMethod   string
	Payload         types.JSONB
}

// PaymentsGateway is the narrow contract against the payment provider.
// Any transport or upstream failure surfaces as types.ErrGateway.
type PaymentsGateway interface {
	CreatePayment(ctx context.Context, bookingID uint, amount float64, description string) (*PaymentResult, error)
	GetPayment(ctx context.Context, providerPaymentID string) (*PaymentResult, error)
}

var gateway PaymentsGateway

func GetGateway() PaymentsGateway {
	return gateway
}

// NewGateway replaces the shared gateway, used by tests to inject a stub.
func NewGateway(g PaymentsGateway) {
	gateway = g
}

func InitGateway(cfg *config.Config) PaymentsGateway {
	gateway = NewYookassaClient(cfg)
	return gateway
}

type YookassaClient struct {
	shopID    string
	secretKey string
	returnURL string
	baseURL   string
	http      *http.Client
}

func NewYookassaClient(cfg *config.Config) *YookassaClient {
	return &YookassaClient{
		shopID:    cfg.YookassaShopID,
		secretKey: cfg.YookassaSecretKey,
		returnURL: cfg.YookassaReturnURL,
		baseURL:   yookassaAPIBase,
		http:      &http.Client{Timeout: 20 * time.Second},
	}
}

// NewYookassaClientWithBaseURL points the client at a different API host,
// used by tests against an httptest server.
func NewYookassaClientWithBaseURL(cfg *config.Config, baseURL string) *YookassaClient {
	c := NewYookassaClient(cfg)
	c.baseURL = baseURL
	return c
}

func (c *YookassaClient) request(ctx context.Context, method, path string, body any) (types.JSONB, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	token := base64.StdEncoding.EncodeToString([]byte(c.shopID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+token)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Idempotence-Key", uuid.NewString())
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrGateway, err.Error())
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrGateway, err.Error())
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d: %s", types.ErrGateway, res.StatusCode, string(raw))
	}
	var payload types.JSONB
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid response body: %s", types.ErrGateway, err.Error())
	}
	return payload, nil
}

func resultFromPayload(payload types.JSONB) (*PaymentResult, error) {
	raw, _ := json.Marshal(payload)
	id := gjson.GetBytes(raw, "id").String()
	status := gjson.GetBytes(raw, "status").String()
	if id == "" || status == "" {
		return nil, fmt.Errorf("%w: response missing id or status", types.ErrGateway)
	}
	return &PaymentResult{
		PaymentID:       id,
		Status:          types.PaymentStatus(status),
		ConfirmationURL: gjson.GetBytes(raw, "confirmation.confirmation_url").String(),
		PaymentMethod:   gjson.GetBytes(raw, "payment_method.type").String(),
		Payload:         payload,
	}, nil
}

func (c *YookassaClient) CreatePayment(ctx context.Context, bookingID uint, amount float64, description string) (*PaymentResult, error) {
	body := types.JSONB{
		"amount": types.JSONB{
			"value":    fmt.Sprintf("%.2f", amount),
			"currency": "RUB",
		},
		"capture": true,
		"confirmation": types.JSONB{
			"type":       "redirect",
			"return_url": c.returnURL,
		},
		"description": description,
		"metadata": types.JSONB{
			"booking_id": fmt.Sprintf("%d", bookingID),
		},
	}
	payload, err := c.request(ctx, http.MethodPost, "/payments", body)
	if err != nil {
		return nil, err
	}
	return resultFromPayload(payload)
}

func (c *YookassaClient) GetPayment(ctx context.Context, providerPaymentID string) (*PaymentResult, error) {
	payload, err := c.request(ctx, http.MethodGet, "/payments/"+providerPaymentID, nil)
	if err != nil {
		return nil, err
	}
	return resultFromPayload(payload)
}
