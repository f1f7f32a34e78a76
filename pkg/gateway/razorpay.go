// Package gateway talks to the Razorpay-compatible payment provider. Only
// order creation and signature verification are implemented here; everything
// else about the provider stays behind its API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers an order with the provider and returns its external
// order id. Amount is converted to the smallest currency unit.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	body, err := json.Marshal(orderRequest{
		Amount:   amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency: "INR",
		Receipt:  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create order: provider returned %s", resp.Status)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("create order: provider returned empty order id")
	}

	return order.ID, nil
}

// VerifySignature checks the signature the client received after checkout.
// The provider signs "<order_id>|<payment_id>" with the key secret.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	payload := fmt.Sprintf("%s|%s", orderID, paymentID)
	return verifyHMAC([]byte(payload), signature, c.cfg.KeySecret)
}
