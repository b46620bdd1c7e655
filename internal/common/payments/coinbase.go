package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CoinbaseGateway creates Coinbase Commerce charges for crypto payments.
type CoinbaseGateway struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewCoinbaseGateway(baseURL, apiKey string, timeout time.Duration) *CoinbaseGateway {
	if baseURL == "" {
		baseURL = "https://api.commerce.coinbase.com"
	}
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &CoinbaseGateway{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *CoinbaseGateway) Name() string { return "coinbase" }

type coinbaseChargeResponse struct {
	Data struct {
		ID        string `json:"id"`
		Code      string `json:"code"`
		HostedURL string `json:"hosted_url"`
		Timeline  []struct {
			Status string `json:"status"`
		} `json:"timeline"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckout creates a fixed-price charge and returns the hosted page.
func (g *CoinbaseGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	payload := map[string]interface{}{
		"name":         "Business setup package",
		"description":  req.Description,
		"pricing_type": "fixed_price",
		"local_price": map[string]string{
			"amount":   fmt.Sprintf("%.2f", req.Amount),
			"currency": strings.ToUpper(req.Currency),
		},
		"metadata": map[string]string{
			"leadId": req.LeadID,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/charges", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-CC-Api-Key", g.apiKey)
	httpReq.Header.Set("X-CC-Version", "2018-03-22")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var chargeResp coinbaseChargeResponse
	if err := json.Unmarshal(body, &chargeResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		if chargeResp.Error != nil {
			return nil, fmt.Errorf("coinbase error (status %d): %s", resp.StatusCode, chargeResp.Error.Message)
		}
		return nil, fmt.Errorf("coinbase error (status %d): %s", resp.StatusCode, string(body))
	}

	status := "created"
	if len(chargeResp.Data.Timeline) > 0 {
		status = strings.ToLower(chargeResp.Data.Timeline[len(chargeResp.Data.Timeline)-1].Status)
	}

	return &CheckoutSession{
		GatewayID:   chargeResp.Data.Code,
		CheckoutURL: chargeResp.Data.HostedURL,
		Status:      status,
	}, nil
}
