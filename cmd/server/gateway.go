package main

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/windfall/readaloud_service/internal/client"
	"github.com/windfall/readaloud_service/internal/config"
	"github.com/windfall/readaloud_service/internal/service"
)

// modelGateway is a service.ModelGateway the server can describe and close.
type modelGateway interface {
	service.ModelGateway
	Name() string
	Model() string
	Close() error
}

// errMissingCredentials means the selected provider has no credentials
// configured; the server starts without a gateway.
type errMissingCredentials struct {
	provider string
	env      string
}

func (e errMissingCredentials) Error() string {
	return fmt.Sprintf("%s provider selected but %s is not set", e.provider, e.env)
}

// newModelGateway builds the gateway selected by MODEL_PROVIDER.
func newModelGateway(ctx context.Context, cfg *config.Config) (modelGateway, error) {
	switch cfg.ModelProvider {
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, errMissingCredentials{cfg.ModelProvider, "GEMINI_API_KEY"}
		}
		c, err := client.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return c.WithModel(cfg.ModelName), nil

	case config.ProviderVertex:
		if cfg.GeminiSABase64 == "" {
			return nil, errMissingCredentials{cfg.ModelProvider, "GEMINI_SA_BASE64"}
		}
		saJSON, err := base64.StdEncoding.DecodeString(cfg.GeminiSABase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode GEMINI_SA_BASE64: %w", err)
		}
		c, err := client.NewVertexGeminiClient(ctx, saJSON, cfg.GCPLocation)
		if err != nil {
			return nil, err
		}
		return c.WithModel(cfg.ModelName), nil

	case config.ProviderGenerativeAI:
		if cfg.GeminiAPIKey == "" {
			return nil, errMissingCredentials{cfg.ModelProvider, "GEMINI_API_KEY"}
		}
		c, err := client.NewGenerativeAIClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return c.WithModel(cfg.ModelName), nil

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errMissingCredentials{cfg.ModelProvider, "OPENAI_API_KEY"}
		}
		return client.NewOpenAIClient(cfg.OpenAIAPIKey).WithModel(cfg.ModelName), nil

	case config.ProviderAzure:
		if cfg.AzureOpenAIEndpoint == "" || cfg.AzureOpenAIAPIKey == "" {
			return nil, errMissingCredentials{cfg.ModelProvider, "AZURE_OPENAI_ENDPOINT/AZURE_OPENAI_API_KEY"}
		}
		return client.NewAzureChatClient(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIAPIKey), nil

	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
}
