package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIServer(t *testing.T, status int, body string, captured *ChatRequest, auth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_Generate(t *testing.T) {
	t.Run("sends system and user messages with budget", func(t *testing.T) {
		var req ChatRequest
		var auth string
		srv := newTestOpenAIServer(t, http.StatusOK,
			`{"choices":[{"index":0,"message":{"role":"assistant","content":"  Tell me about yourself.  "}}]}`,
			&req, &auth)

		client := NewOpenAIClient("sk-test", "").
			WithEndpoint(srv.URL + "/v1/chat/completions").
			WithSystemPrompt("You are an interviewer.")

		text, err := client.Generate(context.Background(), "Ask a question", 300)
		require.NoError(t, err)
		assert.Equal(t, "Tell me about yourself.", text)

		assert.Equal(t, "Bearer sk-test", auth)
		assert.Equal(t, OpenAIModel, req.Model)
		assert.Equal(t, 300, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "You are an interviewer.", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "Ask a question", req.Messages[1].Content)
	})

	t.Run("omits system message when unset", func(t *testing.T) {
		var req ChatRequest
		srv := newTestOpenAIServer(t, http.StatusOK,
			`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`, &req, nil)

		client := NewOpenAIClient("k", "gpt-4o").WithEndpoint(srv.URL + "/v1/chat/completions")
		_, err := client.Generate(context.Background(), "hi", 0)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
	})

	t.Run("api error surfaces status and message", func(t *testing.T) {
		srv := newTestOpenAIServer(t, http.StatusUnauthorized,
			`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`, nil, nil)

		client := NewOpenAIClient("bad", "").WithEndpoint(srv.URL + "/v1/chat/completions")
		_, err := client.Generate(context.Background(), "hi", 10)
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "Incorrect API key provided", apiErr.Message)
	})

	t.Run("no choices is an empty response", func(t *testing.T) {
		srv := newTestOpenAIServer(t, http.StatusOK, `{"choices":[]}`, nil, nil)

		client := NewOpenAIClient("k", "").WithEndpoint(srv.URL + "/v1/chat/completions")
		_, err := client.Generate(context.Background(), "hi", 10)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("blank content is an empty response", func(t *testing.T) {
		srv := newTestOpenAIServer(t, http.StatusOK,
			`{"choices":[{"message":{"role":"assistant","content":"   "}}]}`, nil, nil)

		client := NewOpenAIClient("k", "").WithEndpoint(srv.URL + "/v1/chat/completions")
		_, err := client.Generate(context.Background(), "hi", 10)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := newTestOpenAIServer(t, http.StatusOK, `not json`, nil, nil)

		client := NewOpenAIClient("k", "").WithEndpoint(srv.URL + "/v1/chat/completions")
		_, err := client.Generate(context.Background(), "hi", 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse chat completion response")
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := newTestOpenAIServer(t, http.StatusOK,
			`{"choices":[{"message":{"content":"late"}}]}`, nil, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewOpenAIClient("k", "").WithEndpoint(srv.URL + "/v1/chat/completions")
		_, err := client.Generate(ctx, "hi", 10)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("openai requires key", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: ProviderOpenAI})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})

	t.Run("gemini requires key", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: ProviderGemini})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: "claude"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown LLM provider")
	})

	t.Run("openai base url override", func(t *testing.T) {
		srv := newTestOpenAIServer(t, http.StatusOK,
			`{"choices":[{"message":{"content":"from proxy"}}]}`, nil, nil)

		gen, err := New(ctx, Config{
			Provider:      "OpenAI",
			OpenAIAPIKey:  "k",
			OpenAIBaseURL: srv.URL + "/v1/",
		})
		require.NoError(t, err)

		text, err := gen.Generate(ctx, "hi", 5)
		require.NoError(t, err)
		assert.Equal(t, "from proxy", text)
	})

	t.Run("gemini client", func(t *testing.T) {
		gen, err := New(ctx, Config{Provider: ProviderGemini, GeminiAPIKey: "key"})
		require.NoError(t, err)
		assert.IsType(t, &GeminiClient{}, gen)
	})
}
