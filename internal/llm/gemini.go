package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// GeminiModel is the default Gemini model
const GeminiModel = "gemini-2.0-flash"

// contentGenerator is the part of the genai client the Gemini backend uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig holds configuration for the Gemini backend
type GeminiConfig struct {
	APIKey     string
	Model      string       // Optional: defaults to GeminiModel
	BaseURL    string       // Optional: overrides the API endpoint
	HTTPClient *http.Client // Optional
}

// GeminiClient generates text with the Gemini generate-content API
type GeminiClient struct {
	model  string
	models contentGenerator
}

// NewGeminiClient creates a Gemini backend
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (client *GeminiClient, err error) {
	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	var gc *genai.Client
	gc, err = genai.NewClient(ctx, clientConfig)
	if err != nil {
		err = errors.Wrap(err, "failed to create gemini client")
		return client, err
	}

	client = newGeminiClient(gc.Models, cfg.Model)
	return client, err
}

func newGeminiClient(models contentGenerator, model string) *GeminiClient {
	if model == "" {
		model = GeminiModel
	}
	return &GeminiClient{
		model:  model,
		models: models,
	}
}

// Generate implements Generator
func (c *GeminiClient) Generate(ctx context.Context, prompt string, maxTokens int) (text string, err error) {
	config := &genai.GenerateContentConfig{}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}

	var resp *genai.GenerateContentResponse
	resp, err = c.models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		err = errors.Wrap(err, "gemini generate content request failed")
		return text, err
	}

	if resp == nil {
		err = ErrEmptyResponse
		return text, err
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		err = errors.Errorf("gemini blocked the prompt: %s", resp.PromptFeedback.BlockReason)
		return text, err
	}

	text = strings.TrimSpace(resp.Text())
	if text == "" {
		err = ErrEmptyResponse
		return text, err
	}

	return text, err
}
