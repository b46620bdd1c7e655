// Package portal wraps the client-portal REST API used after payment.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	commonhttp "freezone-advisor/internal/common/http"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *commonhttp.Client
}

// ClientAccount is the portal-side record created during handoff.
type ClientAccount struct {
	ID           string  `json:"id,omitempty"`
	Email        string  `json:"email"`
	FullName     string  `json:"fullName"`
	Phone        string  `json:"phone,omitempty"`
	LeadID       string  `json:"leadId"`
	FreezoneName string  `json:"freezoneName"`
	PackageName  string  `json:"packageName"`
	SetupCost    float64 `json:"setupCost"`
	Source       string  `json:"source,omitempty"`
}

type createAccountResponse struct {
	Data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
	Message string `json:"message,omitempty"`
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: commonhttp.NewClient(timeout),
	}
}

// CreateAccount registers a paid lead in the client portal and returns the account ID.
func (c *Client) CreateAccount(ctx context.Context, account *ClientAccount) (string, error) {
	url := fmt.Sprintf("%s/v1/accounts", c.baseURL)

	jsonData, err := json.Marshal(account)
	if err != nil {
		return "", fmt.Errorf("failed to marshal account: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create account (status %d): %s", resp.StatusCode, string(body))
	}

	var createResp createAccountResponse
	if err := json.Unmarshal(body, &createResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if createResp.Data.ID == "" {
		return "", fmt.Errorf("account creation failed: %s", createResp.Message)
	}

	return createResp.Data.ID, nil
}

// GetAccount fetches a portal account by ID.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*ClientAccount, error) {
	url := fmt.Sprintf("%s/v1/accounts/%s", c.baseURL, accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get account (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data ClientAccount `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Data.ID == "" {
		return nil, fmt.Errorf("account not found")
	}

	return &result.Data, nil
}

// AttachProposal uploads the proposal document to an existing portal account.
func (c *Client) AttachProposal(ctx context.Context, accountID string, proposal interface{}) error {
	url := fmt.Sprintf("%s/v1/accounts/%s/proposal", c.baseURL, accountID)

	jsonData, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("failed to marshal proposal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to attach proposal (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// FindAccountByEmail looks up an existing portal account, used for idempotent handoff.
func (c *Client) FindAccountByEmail(ctx context.Context, email string) ([]ClientAccount, error) {
	url := fmt.Sprintf("%s/v1/accounts/search?email=%s", c.baseURL, neturl.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to search accounts (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []ClientAccount `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Data, nil
}
