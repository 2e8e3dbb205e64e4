package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AzureChatClient wraps the Azure OpenAI Chat Completions REST API.
type AzureChatClient struct {
	endpoint string // full deployment URL, e.g. https://res.openai.azure.com/openai/deployments/x/chat/completions?api-version=...
	apiKey   string
	client   *http.Client
}

// chatRequest is the request body for the Chat Completions API.
type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

// chatMessage is a single message in the chat history.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response from the Chat Completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is a single completion choice.
type chatChoice struct {
	Message chatMessage `json:"message"`
}

// NewAzureChatClient creates a new Azure OpenAI Chat Completions client.
func NewAzureChatClient(endpoint, apiKey string) *AzureChatClient {
	return &AzureChatClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Name returns the provider name.
func (c *AzureChatClient) Name() string {
	return "azure"
}

// Model returns the deployment endpoint; Azure binds the model to it.
func (c *AzureChatClient) Model() string {
	return c.endpoint
}

// Close is a no-op.
func (c *AzureChatClient) Close() error {
	return nil
}

// Complete sends the prompt as a single user message.
func (c *AzureChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.ChatCompletion(ctx, "", prompt)
}

// ChatCompletion sends an optional system prompt plus a user message to
// Azure OpenAI Chat Completions and returns the assistant's response text.
func (c *AzureChatClient) ChatCompletion(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" {
		return "", fmt.Errorf("azure openai chat credentials not configured")
	}

	var reqBody chatRequest
	if systemPrompt != "" {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "user", Content: userMessage})

	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("azure openai chat api error %d: %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from azure openai")
	}

	return result.Choices[0].Message.Content, nil
}
