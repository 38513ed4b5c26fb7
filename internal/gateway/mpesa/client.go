package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/config"
	"github.com/freshmart/checkoutapi/pkg/errors"
)

// Client initiates M-Pesa payments through the backend proxy endpoint. The
// proxy triggers an out-of-band prompt on the shopper's phone; the money
// movement itself is asynchronous and never awaited here.
type Client struct {
	proxyURL   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new M-Pesa proxy client.
func NewClient(cfg config.MpesaConfig, logger *zap.Logger) *Client {
	return &Client{
		proxyURL: cfg.ProxyURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type payRequest struct {
	Phone                string          `json:"phone"`
	Amount               decimal.Decimal `json:"amount"`
	PaymentIdentifier    int             `json:"paymentIdentifier"`
	InitiatorPhoneNumber string          `json:"initiatorPhoneNumber"`
}

type payResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ResponseDescription string `json:"ResponseDescription"`
	} `json:"data"`
}

// InitiatePayment sends the phone, amount and payment identifier to the
// proxy. A non-success response fails with the backend-supplied
// description; success returns the description for display.
func (c *Client) InitiatePayment(ctx context.Context, phone string, amount decimal.Decimal, paymentIdentifier int, initiatorPhone string) (string, error) {
	reqBody := payRequest{
		Phone:                phone,
		Amount:               amount,
		PaymentIdentifier:    paymentIdentifier,
		InitiatorPhoneNumber: initiatorPhone,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &errors.ErrBackend{Operation: "mpesa initiation", Message: fmt.Sprintf("Error initiating M-Pesa payment: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var payResp payResponse
	if err := json.Unmarshal(body, &payResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !payResp.Success {
		description := payResp.Data.ResponseDescription
		if description == "" {
			description = "Unknown error"
		}
		return "", &errors.ErrBackend{
			Operation: "mpesa initiation",
			Message:   fmt.Sprintf("Failed to initiate M-Pesa payment: %s", description),
		}
	}

	c.logger.Info("M-Pesa payment initiated",
		zap.Int("payment_identifier", paymentIdentifier),
		zap.String("description", payResp.Data.ResponseDescription),
	)

	return payResp.Data.ResponseDescription, nil
}
