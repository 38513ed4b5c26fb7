package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/checkout"
	"github.com/freshmart/checkoutapi/internal/config"
	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/pkg/errors"
)

// Client talks to the Stripe REST API. Only the two calls the checkout
// workflow needs are implemented: card tokenization and payment intent
// confirmation.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Stripe client.
func NewClient(cfg config.StripeConfig, logger *zap.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		secretKey: cfg.SecretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type paymentMethodResponse struct {
	ID    string    `json:"id"`
	Error *apiError `json:"error"`
}

type paymentIntentResponse struct {
	ID     string    `json:"id"`
	Status string    `json:"status"`
	Error  *apiError `json:"error"`
}

// CreatePaymentMethod exchanges raw card details for a payment-method
// token. A gateway rejection surfaces the gateway's own message.
func (c *Client) CreatePaymentMethod(ctx context.Context, card checkout.CardDetails) (*domain.PaymentArtifact, error) {
	form := url.Values{}
	form.Set("type", "card")
	form.Set("card[number]", card.Number)
	form.Set("card[exp_month]", strconv.Itoa(card.ExpMonth))
	form.Set("card[exp_year]", strconv.Itoa(card.ExpYear))
	form.Set("card[cvc]", card.CVC)

	var resp paymentMethodResponse
	if err := c.post(ctx, "/payment_methods", form, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil || resp.ID == "" {
		message := "card tokenization failed"
		if resp.Error != nil && resp.Error.Message != "" {
			message = resp.Error.Message
		}
		return nil, &errors.ErrGateway{Message: message}
	}

	return &domain.PaymentArtifact{PaymentMethodID: resp.ID}, nil
}

// ConfirmCardPayment confirms the backend-created payment intent with the
// tokenized payment method. Anything but a succeeded or processing intent
// is a gateway failure.
func (c *Client) ConfirmCardPayment(ctx context.Context, clientSecret, paymentMethodID string) error {
	intentID := intentIDFromSecret(clientSecret)
	if intentID == "" {
		return &errors.ErrGateway{Message: "invalid payment intent client secret"}
	}

	form := url.Values{}
	form.Set("payment_method", paymentMethodID)
	form.Set("client_secret", clientSecret)

	var resp paymentIntentResponse
	if err := c.post(ctx, fmt.Sprintf("/payment_intents/%s/confirm", intentID), form, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		message := "card payment confirmation failed"
		if resp.Error.Message != "" {
			message = resp.Error.Message
		}
		return &errors.ErrGateway{Message: message}
	}
	if resp.Status != "succeeded" && resp.Status != "processing" && resp.Status != "requires_capture" {
		return &errors.ErrGateway{Message: fmt.Sprintf("card payment not confirmed: %s", resp.Status)}
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &errors.ErrGateway{Message: fmt.Sprintf("gateway unreachable: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	// Stripe returns the error object alongside non-2xx statuses; the
	// caller inspects it for the human-readable message.
	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Error("Stripe API error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path),
		)
	}

	return nil
}

// intentIDFromSecret extracts the payment intent ID from a client secret of
// the form "pi_xxx_secret_yyy".
func intentIDFromSecret(clientSecret string) string {
	idx := strings.Index(clientSecret, "_secret")
	if idx <= 0 {
		return ""
	}
	return clientSecret[:idx]
}
