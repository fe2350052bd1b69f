// Package llm provides text generation backends for the interview and career
// advice features.
package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Provider selects a text generation backend
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// ErrEmptyResponse is returned when a backend answered without any text
var ErrEmptyResponse = errors.New("model returned no text")

// Generator turns a prompt into text within a token budget
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Config holds the settings for every backend. Only the fields of the
// selected provider are used.
type Config struct {
	Provider Provider

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAISystemPrompt string

	// HTTPTimeout bounds a single HTTP round trip to the provider
	HTTPTimeout time.Duration
}

// New creates the generator selected by cfg.Provider
func New(ctx context.Context, cfg Config) (gen Generator, err error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	if cfg.HTTPTimeout <= 0 {
		httpClient.Timeout = 120 * time.Second
	}

	switch Provider(strings.ToLower(string(cfg.Provider))) {
	case ProviderGemini, "":
		if cfg.GeminiAPIKey == "" {
			err = errors.New("GEMINI_API_KEY is required for the gemini provider")
			return gen, err
		}
		var client *GeminiClient
		client, err = NewGeminiClient(ctx, GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return gen, err
		}
		gen = client
		return gen, err
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			err = errors.New("OPENAI_API_KEY is required for the openai provider")
			return gen, err
		}
		client := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel).
			WithHTTPClient(httpClient).
			WithSystemPrompt(cfg.OpenAISystemPrompt)
		if cfg.OpenAIBaseURL != "" {
			client = client.WithEndpoint(strings.TrimRight(cfg.OpenAIBaseURL, "/") + "/chat/completions")
		}
		gen = client
		return gen, err
	default:
		err = errors.Errorf("unknown LLM provider %q (use gemini or openai)", cfg.Provider)
		return gen, err
	}
}
