// Package vapi is a minimal client for the Vapi call API.
package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lead-call-bridge/internal/models"
	"lead-call-bridge/internal/utils"
)

// Client defines the interface for placing calls through Vapi.
type Client interface {
	CreateCall(ctx context.Context, req *models.CallRequest) (*models.CallResponse, error)
}

// APIError is returned when Vapi answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error from Vapi API: status %d: %s", e.StatusCode, e.Body)
}

type clientImpl struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Vapi client. A zero timeout means 30 seconds.
func NewClient(apiKey, baseURL string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewClientWithHTTP(apiKey, baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a Vapi client on top of an existing http.Client.
func NewClientWithHTTP(apiKey, baseURL string, httpClient *http.Client) Client {
	return &clientImpl{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// CreateCall places a single outbound call. It never retries.
func (c *clientImpl) CreateCall(ctx context.Context, call *models.CallRequest) (*models.CallResponse, error) {
	payload, err := json.Marshal(call)
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error creating call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Best effort: the status alone is still worth reporting.
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			body = nil
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result models.CallResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	utils.GetLogger().Info("Created Vapi call",
		utils.String("callId", result.ID),
		utils.String("status", result.Status),
		utils.Phone("customer", call.Customer.Number))

	return &result, nil
}
