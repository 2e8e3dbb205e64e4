// Package apiclient is a typed client for the read-aloud backend API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/windfall/readaloud_service/pkg/feedback"
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Client calls the backend endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:3000/api". A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GeneratePassage requests a practice passage at the given difficulty.
func (c *Client) GeneratePassage(ctx context.Context, difficulty string) (string, error) {
	var resp struct {
		Passage string `json:"passage"`
	}
	if err := c.post(ctx, "/generate-passage", map[string]string{"difficulty": difficulty}, &resp); err != nil {
		return "", err
	}
	return resp.Passage, nil
}

// AnalyzeReading sends the passage and transcript for analysis.
func (c *Client) AnalyzeReading(ctx context.Context, originalPassage, userTranscript string) (*feedback.Feedback, error) {
	var fb feedback.Feedback
	body := map[string]string{
		"originalPassage": originalPassage,
		"userTranscript":  userTranscript,
	}
	if err := c.post(ctx, "/analyze-reading", body, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(data, &body)
		return &StatusError{StatusCode: resp.StatusCode, Message: body.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
