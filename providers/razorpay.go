package providers

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
	"time"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// GatewayOrder is the order object returned by the payment gateway.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentProvider abstracts the payment gateway.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error)
	// VerifySignature checks the gateway's HMAC-SHA256 signature over
	// "orderID|paymentID" in constant time.
	VerifySignature(orderID, paymentID, signature string) bool
}

// RazorpayProvider implements PaymentProvider against the Razorpay Orders API.
type RazorpayProvider struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewRazorpayProvider creates a new RazorpayProvider.
func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	return &RazorpayProvider{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   razorpayBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func (p *RazorpayProvider) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if currency == "" {
		currency = "INR"
	}

	body, err := json.Marshal(razorpayOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.SetBasicAuth(p.keyID, p.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, respBody)
	}

	var order GatewayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("decode gateway order: %w", err)
	}
	return &order, nil
}

func (p *RazorpayProvider) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(p.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
