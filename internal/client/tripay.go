package client

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"panel-store/internal/config"
	"panel-store/internal/model"
)

const transactionTTL = 24 * time.Hour

type TripayClient interface {
	// ListChannels returns the gateway's payment channels unfiltered;
	// restricting to active channels is the caller's concern.
	ListChannels(ctx context.Context) ([]model.Channel, error)

	// CreateTransaction opens a payment transaction and returns the
	// gateway's payment-instructions payload verbatim.
	CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*Transaction, error)
}

// CreateTransactionRequest carries the order-side inputs; the client fills
// in signature, expiry and the order-item envelope.
type CreateTransactionRequest struct {
	Method        string
	MerchantRef   string
	Amount        int
	CustomerName  string
	CustomerEmail string
	PanelType     model.PanelType
	PackageLabel  string
}

// Transaction is the gateway's create-transaction result. Raw is the data
// payload exactly as returned; Reference is extracted for persistence.
type Transaction struct {
	Reference string
	Raw       json.RawMessage
}

type tripayClientImpl struct {
	httpClient   *http.Client
	baseURL      string
	merchantCode string
	apiKey       string
	privateKey   string
	callbackURL  string
	returnURL    string
	productURL   string
	imageURL     string
}

func NewTripayClient(cfg *config.Tripay) TripayClient {
	return &tripayClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:      cfg.BaseURL,
		merchantCode: cfg.MerchantCode,
		apiKey:       cfg.APIKey,
		privateKey:   cfg.PrivateKey,
		callbackURL:  cfg.CallbackURL,
		returnURL:    cfg.ReturnURL,
		productURL:   cfg.ProductURL,
		imageURL:     cfg.ImageURL,
	}
}

// signature is the per-transaction integrity proof, distinct from the
// bearer API key: HMAC-SHA256(privateKey, merchantCode+merchantRef+amount).
func (c *tripayClientImpl) signature(merchantRef string, amount int) string {
	mac := hmac.New(sha256.New, []byte(c.privateKey))
	mac.Write([]byte(c.merchantCode + merchantRef + strconv.Itoa(amount)))
	return hex.EncodeToString(mac.Sum(nil))
}

type orderItem struct {
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
	Quantity   int    `json:"quantity"`
	ProductURL string `json:"product_url,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

type createTransactionPayload struct {
	Method        string      `json:"method"`
	MerchantRef   string      `json:"merchant_ref"`
	Amount        int         `json:"amount"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	CustomerPhone string      `json:"customer_phone"`
	OrderItems    []orderItem `json:"order_items"`
	CallbackURL   string      `json:"callback_url"`
	ReturnURL     string      `json:"return_url"`
	ExpiredTime   int64       `json:"expired_time"`
	Signature     string      `json:"signature"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *tripayClientImpl) ListChannels(ctx context.Context) ([]model.Channel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/merchant/payment-channel", nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tripay channel request: %w", err)
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var channels []model.Channel
	if err := json.Unmarshal(env.Data, &channels); err != nil {
		return nil, fmt.Errorf("decode channel list: %w", err)
	}
	return channels, nil
}

func (c *tripayClientImpl) CreateTransaction(ctx context.Context, r *CreateTransactionRequest) (*Transaction, error) {
	sku := string(r.PanelType) + "_" + strings.ReplaceAll(r.PackageLabel, " ", "_")

	payload := createTransactionPayload{
		Method:        r.Method,
		MerchantRef:   r.MerchantRef,
		Amount:        r.Amount,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		// The purchase form collects no phone number; the gateway requires one.
		CustomerPhone: "08123456789",
		OrderItems: []orderItem{
			{
				SKU:        sku,
				Name:       fmt.Sprintf("Panel %s - %s", r.PanelType, r.PackageLabel),
				Price:      r.Amount,
				Quantity:   1,
				ProductURL: c.productURL,
				ImageURL:   c.imageURL,
			},
		},
		CallbackURL: c.callbackURL,
		ReturnURL:   c.returnURL,
		ExpiredTime: time.Now().Add(transactionTTL).Unix(),
		Signature:   c.signature(r.MerchantRef, r.Amount),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transaction/create", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tripay transaction request: %w", err)
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var ref struct {
		Reference string `json:"reference"`
	}
	if err := json.Unmarshal(env.Data, &ref); err != nil {
		return nil, fmt.Errorf("decode transaction data: %w", err)
	}

	return &Transaction{Reference: ref.Reference, Raw: env.Data}, nil
}

// decodeEnvelope fails with the gateway's own message on a non-2xx status
// or a success=false payload.
func decodeEnvelope(resp *http.Response) (*envelope, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tripay response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && env.Message != "" {
			return nil, fmt.Errorf("tripay error %d: %s", resp.StatusCode, env.Message)
		}
		return nil, fmt.Errorf("tripay error %d: %s", resp.StatusCode, string(raw))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode tripay response: %w", decodeErr)
	}
	if !env.Success {
		if env.Message == "" {
			env.Message = "gateway rejected the request"
		}
		return nil, fmt.Errorf("tripay: %s", env.Message)
	}
	return &env, nil
}
