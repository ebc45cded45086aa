// Package storeclient is the Go client for the storefront API: it drives
// the purchase flow (form, confirmation, payment) and keeps the
// device-local transaction history.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"panel-store/internal/catalog"
	"panel-store/internal/dto"
	"panel-store/internal/model"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
}

func New(baseURL, anonKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		anonKey: anonKey,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	if c.anonKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e dto.ErrorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return fmt.Errorf("%s", e.Error)
		}
		return fmt.Errorf("api error %d: %s", resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var stats dto.StatsResponse
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Packages(ctx context.Context) ([]catalog.Tier, error) {
	var resp struct {
		Packages []catalog.Tier `json:"packages"`
	}
	if err := c.do(ctx, http.MethodGet, "/packages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Packages, nil
}

// PaymentMethods returns the channels the buyer may pick from; the server
// already filtered them to active ones.
func (c *Client) PaymentMethods(ctx context.Context) ([]model.Channel, error) {
	var resp struct {
		Success bool            `json:"success"`
		Data    []model.Channel `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/payment-methods", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	var resp dto.CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/create-order", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	var resp struct {
		Success bool        `json:"success"`
		Data    model.Order `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/order/"+orderID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
