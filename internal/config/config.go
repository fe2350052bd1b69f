// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/kfreiman/careercoach/internal/interview"
	"github.com/kfreiman/careercoach/internal/llm"
	"github.com/kfreiman/careercoach/internal/telemetry"
)

// Config holds the configuration for the careercoach server
type Config struct {
	Port int `env:"PORT" env-default:"3001" env-description:"HTTP server port"`

	LLMProvider   string `env:"LLM_PROVIDER" env-default:"gemini" env-description:"Text generation backend (gemini or openai)"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY" env-description:"Gemini API key"`
	GeminiModel   string `env:"GEMINI_MODEL" env-default:"gemini-2.0-flash" env-description:"Gemini model name"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" env-description:"Override for the Gemini API endpoint"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY" env-description:"OpenAI API key"`
	OpenAIModel   string `env:"OPENAI_MODEL" env-default:"gpt-3.5-turbo" env-description:"OpenAI chat model"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" env-description:"Override for the OpenAI-compatible API base URL (e.g. https://api.openai.com/v1)"`

	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" env-default:"30s" env-description:"Upper bound for a single text generation call"`
	QuestionTokens    int           `env:"QUESTION_MAX_TOKENS" env-default:"300" env-description:"Token budget for interview questions"`
	ClarifyTokens     int           `env:"CLARIFY_MAX_TOKENS" env-default:"300" env-description:"Token budget for rephrased questions"`
	FeedbackTokens    int           `env:"FEEDBACK_MAX_TOKENS" env-default:"600" env-description:"Token budget for end-of-interview feedback"`
	FinalTokens       int           `env:"FINAL_FEEDBACK_MAX_TOKENS" env-default:"1000" env-description:"Token budget for feedback on an interview finished early"`

	SessionTTL           time.Duration `env:"SESSION_TTL" env-default:"2h" env-description:"Idle time after which a session is swept (0 disables)"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" env-default:"5m" env-description:"How often idle sessions are swept"`

	ArchiveEnabled bool          `env:"ARCHIVE_ENABLED" env-default:"true" env-description:"Archive transcripts of ended interviews"`
	ArchivePath    string        `env:"ARCHIVE_PATH" env-default:"./storage" env-description:"Transcript archive directory"`
	ArchiveTTL     time.Duration `env:"ARCHIVE_TTL" env-default:"720h" env-description:"Age after which archived transcripts are removed"`

	StaticDir          string   `env:"STATIC_DIR" env-default:"./public" env-description:"Directory served at / (empty disables)"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:"," env-description:"Allowed CORS origins"`

	OTELEnabled  bool   `env:"OTEL_ENABLED" env-default:"false" env-description:"Export metrics over OTLP gRPC"`
	OTELEndpoint string `env:"OTEL_ENDPOINT" env-default:"localhost:4317" env-description:"OTLP collector endpoint"`
	OTELInsecure bool   `env:"OTEL_INSECURE" env-default:"true" env-description:"Use plaintext gRPC to the collector"`
}

// Load reads an optional .env file, then the environment
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values cleanenv cannot
func (c Config) Validate() error {
	switch llm.Provider(strings.ToLower(c.LLMProvider)) {
	case llm.ProviderGemini, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("LLM_PROVIDER must be gemini or openai, got %q", c.LLMProvider)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	if c.SessionTTL > 0 && c.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive when SESSION_TTL is set")
	}
	for name, v := range map[string]int{
		"QUESTION_MAX_TOKENS":       c.QuestionTokens,
		"CLARIFY_MAX_TOKENS":        c.ClarifyTokens,
		"FEEDBACK_MAX_TOKENS":       c.FeedbackTokens,
		"FINAL_FEEDBACK_MAX_TOKENS": c.FinalTokens,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// LLM returns the text generation settings
func (c Config) LLM() llm.Config {
	return llm.Config{
		Provider:      llm.Provider(strings.ToLower(c.LLMProvider)),
		GeminiAPIKey:  c.GeminiAPIKey,
		GeminiModel:   c.GeminiModel,
		GeminiBaseURL: c.GeminiBaseURL,
		OpenAIAPIKey:  c.OpenAIAPIKey,
		OpenAIModel:   c.OpenAIModel,
		OpenAIBaseURL: c.OpenAIBaseURL,
		// the HTTP client never outlives the per-call context deadline
		HTTPTimeout: c.GenerationTimeout + 5*time.Second,
	}
}

// Budgets returns the interview token budgets
func (c Config) Budgets() interview.Budgets {
	return interview.Budgets{
		Question:      c.QuestionTokens,
		Clarify:       c.ClarifyTokens,
		Feedback:      c.FeedbackTokens,
		FinalFeedback: c.FinalTokens,
	}
}

// Telemetry returns the OTLP exporter settings
func (c Config) Telemetry(version string) telemetry.Config {
	return telemetry.Config{
		Enabled:        c.OTELEnabled,
		Endpoint:       c.OTELEndpoint,
		Insecure:       c.OTELInsecure,
		ServiceVersion: version,
	}
}
