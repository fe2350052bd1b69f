package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// OpenAIEndpoint is the chat completions endpoint.
	OpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	// OpenAIModel is the default model.
	OpenAIModel = "gpt-3.5-turbo"
)

// APIError is a non-2xx answer from a provider
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API request failed with status %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// OpenAIClient represents an OpenAI chat completions client.
type OpenAIClient struct {
	apiKey       string
	model        string
	endpoint     string
	systemPrompt string
	httpClient   *http.Client
}

// NewOpenAIClient creates a new OpenAI chat completions client.
func NewOpenAIClient(apiKey, model string) (client *OpenAIClient) {
	if model == "" {
		model = OpenAIModel
	}
	client = &OpenAIClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: OpenAIEndpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	return client
}

// WithEndpoint overrides the chat completions URL.
func (c *OpenAIClient) WithEndpoint(endpoint string) *OpenAIClient {
	c.endpoint = endpoint
	return c
}

// WithSystemPrompt sets a system message sent before every prompt.
func (c *OpenAIClient) WithSystemPrompt(prompt string) *OpenAIClient {
	c.systemPrompt = prompt
	return c
}

// WithHTTPClient sets the HTTP client.
func (c *OpenAIClient) WithHTTPClient(httpClient *http.Client) *OpenAIClient {
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// Generate implements Generator.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, maxTokens int) (text string, err error) {
	chatReq := ChatRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
	}
	if c.systemPrompt != "" {
		chatReq.Messages = append(chatReq.Messages, ChatMessage{Role: "system", Content: c.systemPrompt})
	}
	chatReq.Messages = append(chatReq.Messages, ChatMessage{Role: "user", Content: prompt})

	var chatResp ChatResponse
	chatResp, err = c.sendRequest(ctx, chatReq)
	if err != nil {
		err = errors.Wrap(err, "chat completion request failed")
		return text, err
	}

	if len(chatResp.Choices) == 0 {
		err = ErrEmptyResponse
		return text, err
	}

	text = strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		err = ErrEmptyResponse
		return text, err
	}

	return text, err
}

// sendRequest posts a chat completion request and decodes the answer.
func (c *OpenAIClient) sendRequest(ctx context.Context, chatReq ChatRequest) (chatResp ChatResponse, err error) {
	var reqBody []byte
	reqBody, err = json.Marshal(chatReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return chatResp, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return chatResp, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return chatResp, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return chatResp, err
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var body ChatResponse
		if json.Unmarshal(respBody, &body) == nil && body.Error != nil && body.Error.Message != "" {
			apiErr.Message = body.Error.Message
		}
		err = apiErr
		return chatResp, err
	}

	err = json.Unmarshal(respBody, &chatResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse chat completion response: %s", string(respBody))
		return chatResp, err
	}

	return chatResp, err
}
