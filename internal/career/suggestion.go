package career

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kfreiman/careercoach/internal/llm"
)

// Suggestion is resume material generated for a role
type Suggestion struct {
	Skills      SkillList `json:"skills"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	// Fallback is set when the model output could not be used
	Fallback bool `json:"fallback,omitempty"`
}

// SkillList decodes from either a JSON array or a comma separated string
type SkillList []string

// UnmarshalJSON implements json.Unmarshaler
func (s *SkillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("skills must be a list or a string: %w", err)
	}
	*s = nil
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// FallbackSuggestion is returned when the model output has no usable shape
func FallbackSuggestion(role string) Suggestion {
	return Suggestion{
		Skills:      SkillList{"Communication", "Problem Solving", "Teamwork"},
		Summary:     fmt.Sprintf("Experienced %s professional.", role),
		Description: fmt.Sprintf("Worked on responsibilities related to %s.", role),
		Fallback:    true,
	}
}

func suggestionPrompt(role string) string {
	return fmt.Sprintf(`Generate ONLY JSON for role %q:
{
  "skills": ["skill1","skill2","skill3","skill4","skill5"],
  "summary": "5 line resume summary",
  "description": "4 line job description"
}`, role)
}

// Suggest generates skills, a resume summary and a job description for a
// role. Output that does not parse into a Suggestion yields the fallback;
// generation failures are returned.
func (a *Advisor) Suggest(ctx context.Context, role string) (Suggestion, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return Suggestion{}, &ValidationError{Field: "role", Reason: "is required"}
	}

	text, err := a.generate(ctx, "suggest", suggestionPrompt(role), suggestionTokens)
	if err != nil {
		return Suggestion{}, err
	}

	var s Suggestion
	if err := llm.DecodeJSON(text, &s); err != nil {
		a.logger.WarnContext(ctx, "suggestion output unusable, using fallback", "role", role, "error", err)
		return FallbackSuggestion(role), nil
	}
	if len(s.Skills) == 0 || strings.TrimSpace(s.Summary) == "" || strings.TrimSpace(s.Description) == "" {
		a.logger.WarnContext(ctx, "suggestion output incomplete, using fallback", "role", role)
		return FallbackSuggestion(role), nil
	}
	s.Fallback = false
	return s, nil
}
