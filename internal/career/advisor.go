// Package career answers free-form career questions: career paths for a skill
// set, the profile of a career, resume suggestions for a role and structured
// career info.
package career

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/kfreiman/careercoach/internal/llm"
)

// Request types accepted by Advise
const (
	TypeSkillsToCareer = "skills-to-career"
	TypeCareerToSkills = "career-to-skills"
)

// Persona frames the open-ended advice prompts
const Persona = "You are a career advisor. Suggest jobs, skills, degrees, industries, and salary based on user input."

const (
	adviceTokens     = 500
	suggestionTokens = 300
	infoTokens       = 500
)

// ValidationError reports a missing or malformed input
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Request is a career advice question
type Request struct {
	Type      string   `json:"type"`
	UserInput string   `json:"userInput"`
	Skills    []string `json:"skills"`
}

// AdvisorConfig holds configuration for the Advisor
type AdvisorConfig struct {
	Generator llm.Generator
	Timeout   time.Duration // Optional: bounds each generation call
	Logger    *slog.Logger  // Optional
}

// Advisor turns career questions into model prompts
type Advisor struct {
	gen     llm.Generator
	timeout time.Duration
	logger  *slog.Logger
}

// NewAdvisor creates an Advisor
func NewAdvisor(config AdvisorConfig) (*Advisor, error) {
	if config.Generator == nil {
		return nil, errors.New("career advisor requires a generator")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{
		gen:     config.Generator,
		timeout: config.Timeout,
		logger:  logger,
	}, nil
}

// Advise dispatches a request on its type
func (a *Advisor) Advise(ctx context.Context, req Request) (string, error) {
	switch req.Type {
	case TypeSkillsToCareer:
		return a.Paths(ctx, req.Skills)
	case TypeCareerToSkills:
		return a.Profile(ctx, req.UserInput)
	case "":
		return "", &ValidationError{Field: "type", Reason: "is required"}
	default:
		return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", req.Type)}
	}
}

// Paths suggests career paths for a skill set
func (a *Advisor) Paths(ctx context.Context, skills []string) (string, error) {
	cleaned := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return "", &ValidationError{Field: "skills", Reason: "at least one skill is required"}
	}

	prompt := fmt.Sprintf("%s\n\nSuggest 5 career paths for someone with these skills: %s", Persona, strings.Join(cleaned, ", "))
	return a.generate(ctx, "paths", prompt, adviceTokens)
}

// Profile describes what a career requires
func (a *Advisor) Profile(ctx context.Context, career string) (string, error) {
	career = strings.TrimSpace(career)
	if career == "" {
		return "", &ValidationError{Field: "userInput", Reason: "career input is required"}
	}

	prompt := fmt.Sprintf("%s\n\nList required skills, education, certifications, experience, and average salary for a %s", Persona, career)
	return a.generate(ctx, "profile", prompt, adviceTokens)
}

// Info asks for structured career info. Output without a JSON object yields
// an empty map.
func (a *Advisor) Info(ctx context.Context, input string) (map[string]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &ValidationError{Field: "input", Reason: "is required"}
	}

	text, err := a.generate(ctx, "info", fmt.Sprintf("Give career info for %s", input), infoTokens)
	if err != nil {
		return nil, err
	}

	info := map[string]any{}
	if err := llm.DecodeJSON(text, &info); err != nil {
		a.logger.WarnContext(ctx, "career info carried no JSON object", "input", input, "error", err)
		return map[string]any{}, nil
	}
	return info, nil
}

func (a *Advisor) generate(ctx context.Context, op, prompt string, budget int) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.gen.Generate(ctx, prompt, budget)
	if err != nil {
		a.logger.ErrorContext(ctx, "career generation failed",
			"operation", op,
			"duration", time.Since(start),
			"error", err)
		return "", errors.Wrapf(err, "career %s generation failed", op)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.Wrapf(llm.ErrEmptyResponse, "career %s generation failed", op)
	}

	a.logger.DebugContext(ctx, "career generation completed",
		"operation", op,
		"duration", time.Since(start),
		"length", len(text))
	return text, nil
}
