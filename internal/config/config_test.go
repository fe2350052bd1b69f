package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/careercoach/internal/interview"
	"github.com/kfreiman/careercoach/internal/llm"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Equal(t, 30*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, interview.Budgets{Question: 300, Clarify: 300, Feedback: 600, FinalFeedback: 1000}, cfg.Budgets())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GENERATION_TIMEOUT", "10s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SESSION_TTL", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Duration(0), cfg.SessionTTL)

	l := cfg.LLM()
	assert.Equal(t, llm.ProviderOpenAI, l.Provider)
	assert.Equal(t, "sk-test", l.OpenAIAPIKey)
	assert.Equal(t, 15*time.Second, l.HTTPTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:                 3001,
			LLMProvider:          "gemini",
			GenerationTimeout:    time.Second,
			SessionTTL:           time.Hour,
			SessionSweepInterval: time.Minute,
			QuestionTokens:       1,
			ClarifyTokens:        1,
			FeedbackTokens:       1,
			FinalTokens:          1,
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"provider", func(c *Config) { c.LLMProvider = "llama" }},
		{"port", func(c *Config) { c.Port = 70000 }},
		{"timeout", func(c *Config) { c.GenerationTimeout = 0 }},
		{"sweep interval", func(c *Config) { c.SessionSweepInterval = 0 }},
		{"budget", func(c *Config) { c.FeedbackTokens = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	c := valid()
	c.SessionTTL = 0
	c.SessionSweepInterval = 0
	assert.NoError(t, c.Validate(), "sweeping disabled needs no interval")
}
