package client

import (
	"context"
	"fmt"

	"cloud.google.com/go/auth/credentials"
	"golang.org/x/oauth2/google"
	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
)

// GeminiClient wraps the Google Gen AI client, either on the Gemini
// Developer API or on Vertex AI.
type GeminiClient struct {
	client   *genai.Client
	model    string
	provider string
}

// NewGeminiClient creates a Gemini client for the Developer API using an API key.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	return newGeminiClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, "gemini")
}

// NewGeminiClientWithBaseURL is NewGeminiClient against a custom endpoint.
func NewGeminiClientWithBaseURL(ctx context.Context, apiKey, baseURL string) (*GeminiClient, error) {
	return newGeminiClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	}, "gemini")
}

// NewVertexGeminiClient creates a Gemini client on Vertex AI from a service
// account JSON key. The project is taken from the key.
func NewVertexGeminiClient(ctx context.Context, serviceAccountJSON []byte, location string) (*GeminiClient, error) {
	sa, err := google.CredentialsFromJSON(ctx, serviceAccountJSON, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account: %w", err)
	}
	if sa.ProjectID == "" {
		return nil, fmt.Errorf("service account has no project_id")
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: serviceAccountJSON,
		Scopes:          []string{cloudPlatformScope},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load vertex credentials: %w", err)
	}

	return newGeminiClient(ctx, &genai.ClientConfig{
		Project:     sa.ProjectID,
		Location:    location,
		Backend:     genai.BackendVertexAI,
		Credentials: creds,
	}, "vertex")
}

func newGeminiClient(ctx context.Context, cfg *genai.ClientConfig, provider string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client:   client,
		model:    defaultGeminiModel,
		provider: provider,
	}, nil
}

// WithModel sets the model to use. Empty keeps the default.
func (c *GeminiClient) WithModel(model string) *GeminiClient {
	if model != "" {
		c.model = model
	}
	return c
}

// Name returns the provider name.
func (c *GeminiClient) Name() string {
	return c.provider
}

// Model returns the model in use.
func (c *GeminiClient) Model() string {
	return c.model
}

// Close closes the client.
func (c *GeminiClient) Close() error {
	// No explicit close needed for new SDK
	return nil
}

// Complete sends the prompt as a single user turn and returns the response text.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
