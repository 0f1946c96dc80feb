package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/astevko/randombmir/model"
)

// Client talks to the transcript file endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the transcript file endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

// SetTimeout sets the request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

type fileResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

type writeRequest struct {
	Filename string  `json:"filename"`
	Content  string  `json:"content"`
	Title    *string `json:"title,omitempty"`
}

// Fetch retrieves the full transcript text for a media filename. The media
// filename is mapped to its .txt resource name before the request.
func (c *Client) Fetch(ctx context.Context, filename string) (string, error) {
	reqURL := fmt.Sprintf("%s?filename=%s", c.baseURL, url.QueryEscape(model.TranscriptFilename(filename)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build transcript request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript endpoint returned status %d", resp.StatusCode)
	}

	var result fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode transcript response: %w", err)
	}
	if !result.Success {
		return "", fmt.Errorf("transcript endpoint reported failure: %s", result.Error)
	}
	return result.Content, nil
}

// Write stores transcript text for a media filename. An empty content
// string is a valid write that clears the transcript.
func (c *Client) Write(ctx context.Context, filename, content string, title *string) error {
	body, err := json.Marshal(writeRequest{
		Filename: model.TranscriptFilename(filename),
		Content:  content,
		Title:    title,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transcript write request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build transcript write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transcript write request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transcript endpoint returned status %d", resp.StatusCode)
	}

	var result fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode transcript write response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("transcript endpoint reported failure: %s", result.Error)
	}
	return nil
}
