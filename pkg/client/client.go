package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"webpush_demo/internal/http/dto"
	"webpush_demo/internal/model"
)

// Notification is the optional broadcast content. Empty fields take the
// server defaults.
type Notification = dto.SendNotificationRequest

// Client talks to the push relay HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the relay at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Stats returns the subscription count and the server's VAPID public key.
func (c *Client) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var stats dto.StatsResponse
	if err := c.get(ctx, "/stats", &stats); err != nil {
		return nil, fmt.Errorf("client.Stats: %w", err)
	}
	return &stats, nil
}

// Subscribe registers sub with the relay.
func (c *Client) Subscribe(ctx context.Context, sub model.Subscription) error {
	if err := c.post(ctx, "/subscribe", sub, nil); err != nil {
		return fmt.Errorf("client.Subscribe: %w", err)
	}
	return nil
}

// Unsubscribe removes the subscription with the given endpoint.
func (c *Client) Unsubscribe(ctx context.Context, endpoint string) error {
	if err := c.post(ctx, "/unsubscribe", dto.UnsubscribeRequest{Endpoint: endpoint}, nil); err != nil {
		return fmt.Errorf("client.Unsubscribe: %w", err)
	}
	return nil
}

// SendNotification broadcasts synchronously and returns the per-subscription results.
func (c *Client) SendNotification(ctx context.Context, n Notification) (*dto.SendNotificationResponse, error) {
	var out dto.SendNotificationResponse
	if err := c.post(ctx, "/send-notification", n, &out); err != nil {
		return nil, fmt.Errorf("client.SendNotification: %w", err)
	}
	return &out, nil
}

// PublishNotification queues a broadcast on the relay's broker.
func (c *Client) PublishNotification(ctx context.Context, n Notification) (*dto.QueuedResponse, error) {
	var out dto.QueuedResponse
	if err := c.post(ctx, "/send-notification/publish", n, &out); err != nil {
		return nil, fmt.Errorf("client.PublishNotification: %w", err)
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr dto.ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
