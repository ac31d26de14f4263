package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ikkim/perfume-storefront/pkg/logger"
)

const sendPath = "/api/v1.0/email/send"

// Client represents an EmailJS REST API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new EmailJS client with the given configuration
func NewClient(config Config) (*Client, error) {
	return NewClientWithHTTP(config, &http.Client{Timeout: 30 * time.Second})
}

// NewClientWithHTTP lets callers supply the HTTP client, e.g. an httptest server's.
func NewClientWithHTTP(config Config, httpClient *http.Client) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// Send renders templateID with params and mails it. EmailJS answers 200 "OK"
// on success and a plain-text reason otherwise.
func (c *Client) Send(ctx context.Context, templateID string, params map[string]string) error {
	if templateID == "" {
		return fmt.Errorf("%w: template id is required", ErrInvalidRequest)
	}

	payload := SendRequest{
		ServiceID:      c.config.ServiceID,
		TemplateID:     templateID,
		UserID:         c.config.PublicKey,
		AccessToken:    c.config.PrivateKey,
		TemplateParams: params,
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	logger.Debug("Sending EmailJS request", map[string]interface{}{
		"service_id":  c.config.ServiceID,
		"template_id": templateID,
		"params":      len(params),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+sendPath, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	statusErr := &StatusError{Status: resp.StatusCode, Text: strings.TrimSpace(string(body))}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, statusErr)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, statusErr)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %w", ErrInvalidRequest, statusErr)
	default:
		return fmt.Errorf("%w: %w", ErrSendFailed, statusErr)
	}
}
