package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/config"
	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/pkg/errors"
)

// Client talks to the upstream order backend: order creation, payment
// intents, coupon definitions and global store settings.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new order backend client.
func NewClient(cfg config.OrderAPIConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type paymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

type backendError struct {
	Message string `json:"message"`
}

// AddOrder persists the draft upstream and returns the created order.
func (c *Client) AddOrder(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/order/add", draft, &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, &errors.ErrBackend{Operation: "add order", Message: "backend returned no order id"}
	}
	return &order, nil
}

// CreatePaymentIntent asks the backend for a card payment intent scoped to
// the draft's total and returns its client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, draft *domain.OrderDraft) (string, error) {
	var resp paymentIntentResponse
	if err := c.do(ctx, http.MethodPost, "/order/create-payment-intent", draft, &resp); err != nil {
		return "", err
	}
	if resp.ClientSecret == "" {
		return "", &errors.ErrBackend{Operation: "create payment intent", Message: "backend returned no client secret"}
	}
	return resp.ClientSecret, nil
}

// GetOrder fetches a created order for the confirmation view.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, "/order/"+id, nil, &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id}
	}
	return &order, nil
}

// GetAllCoupons fetches the active coupon definitions.
func (c *Client) GetAllCoupons(ctx context.Context) ([]domain.Coupon, error) {
	var coupons []domain.Coupon
	if err := c.do(ctx, http.MethodGet, "/coupon", nil, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

// GetGlobalSetting fetches the store-wide settings the checkout displays,
// currently just the default currency.
func (c *Client) GetGlobalSetting(ctx context.Context) (*domain.GlobalSetting, error) {
	var setting domain.GlobalSetting
	if err := c.do(ctx, http.MethodGet, "/setting/global", nil, &setting); err != nil {
		return nil, err
	}
	if setting.DefaultCurrency == "" {
		setting.DefaultCurrency = "$"
	}
	return &setting, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &errors.ErrBackend{Operation: method + " " + path, Message: fmt.Sprintf("order backend unreachable: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var backendErr backendError
		if err := json.Unmarshal(body, &backendErr); err == nil && backendErr.Message != "" {
			return &errors.ErrBackend{Operation: method + " " + path, Message: backendErr.Message}
		}
		c.logger.Error("Order backend error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path),
		)
		return &errors.ErrBackend{Operation: method + " " + path, Message: fmt.Sprintf("order backend error: status %d", resp.StatusCode)}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
