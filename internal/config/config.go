package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Model providers accepted by MODEL_PROVIDER.
const (
	ProviderGemini       = "gemini"
	ProviderVertex       = "vertex"
	ProviderGenerativeAI = "generativeai"
	ProviderOpenAI       = "openai"
	ProviderAzure        = "azure"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Host     string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"PORT" default:"3000"`

	Environment string `envconfig:"SERVER_ENV" default:"development"`

	// Timeouts
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// Request bodies larger than this are rejected.
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Model
	ModelProvider string `envconfig:"MODEL_PROVIDER" default:"gemini"`
	ModelName     string `envconfig:"MODEL_NAME"`

	// Gemini Developer API
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`

	// Vertex AI
	GeminiSABase64 string `envconfig:"GEMINI_SA_BASE64"`
	GCPLocation    string `envconfig:"GCP_LOCATION" default:"us-central1"`

	// OpenAI
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Azure OpenAI
	AzureOpenAIEndpoint string `envconfig:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIAPIKey   string `envconfig:"AZURE_OPENAI_API_KEY"`

	// Prompts override file; embedded defaults are used when empty.
	PromptsPath string `envconfig:"PROMPTS_PATH"`

	// Directory with the browser client (index.html, app.wasm). Not served when empty.
	StaticDir string `envconfig:"STATIC_DIR"`

	// CORS
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	CORSAllowedMethods []string `envconfig:"CORS_ALLOWED_METHODS" default:"GET,POST,OPTIONS"`
	CORSAllowedHeaders []string `envconfig:"CORS_ALLOWED_HEADERS" default:"Accept,Content-Type,X-Request-ID"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch c.ModelProvider {
	case ProviderGemini, ProviderVertex, ProviderGenerativeAI, ProviderOpenAI, ProviderAzure:
	default:
		return fmt.Errorf("unknown MODEL_PROVIDER %q", c.ModelProvider)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid PORT %d", c.HTTPPort)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

// HTTPAddress returns the HTTP server address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
