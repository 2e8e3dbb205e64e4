package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerativeAIClient wraps the legacy Gemini SDK (generative-ai-go).
type GenerativeAIClient struct {
	client *genai.Client
	model  string
}

// NewGenerativeAIClient creates a client on the Gemini API using an API key.
func NewGenerativeAIClient(ctx context.Context, apiKey string) (*GenerativeAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create generative-ai client: %w", err)
	}

	return &GenerativeAIClient{
		client: client,
		model:  defaultGeminiModel,
	}, nil
}

// WithModel sets the model to use. Empty keeps the default.
func (c *GenerativeAIClient) WithModel(model string) *GenerativeAIClient {
	if model != "" {
		c.model = model
	}
	return c
}

// Name returns the provider name.
func (c *GenerativeAIClient) Name() string {
	return "generativeai"
}

// Model returns the model in use.
func (c *GenerativeAIClient) Model() string {
	return c.model
}

// Close closes the client.
func (c *GenerativeAIClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Complete sends the prompt and returns the text of the first candidate.
func (c *GenerativeAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	// Extract text from response
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}
