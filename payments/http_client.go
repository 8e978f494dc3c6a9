package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type HTTPCheckoutClientConfig struct {
	GatewayURL string
	APIKey     string
}

type httpCheckoutClient struct {
	gatewayURL string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPCheckoutClient(cfg HTTPCheckoutClientConfig) (CheckoutClient, error) {
	if cfg.GatewayURL == "" || cfg.APIKey == "" {
		return nil, errors.New("invalid checkout client configuration: gateway URL and API key are required")
	}
	return &httpCheckoutClient{
		gatewayURL: cfg.GatewayURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *httpCheckoutClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/v1/checkout/sessions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build checkout request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("checkout gateway returned status %d", resp.StatusCode)
	}

	var result struct {
		RedirectURL string `json:"redirect_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode checkout response: %w", err)
	}
	if result.RedirectURL == "" {
		return "", errors.New("checkout gateway returned an empty redirect URL")
	}
	return result.RedirectURL, nil
}
