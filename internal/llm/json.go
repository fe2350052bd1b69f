package llm

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoJSON is returned when model output carries no JSON object
var ErrNoJSON = errors.New("no JSON object in model output")

// ExtractJSON isolates the JSON object embedded in model output. Markdown
// code fences and any prose around the outermost braces are dropped.
func ExtractJSON(text string) (raw json.RawMessage, err error) {
	cleaned := stripMarkdownCodeFences(strings.TrimSpace(text))

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		err = ErrNoJSON
		return raw, err
	}

	candidate := cleaned[start : end+1]
	if !json.Valid([]byte(candidate)) {
		err = errors.Wrap(ErrNoJSON, "embedded object is not valid JSON")
		return raw, err
	}

	raw = json.RawMessage(candidate)
	return raw, err
}

// DecodeJSON extracts the JSON object from model output into v
func DecodeJSON(text string, v any) (err error) {
	var raw json.RawMessage
	raw, err = ExtractJSON(text)
	if err != nil {
		return err
	}
	err = json.Unmarshal(raw, v)
	if err != nil {
		err = errors.Wrap(err, "model output does not match the expected shape")
		return err
	}
	return err
}

// stripMarkdownCodeFences removes a surrounding ``` or ```json fence.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = text
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// drop the opening fence line, including any language tag
	if nl := strings.Index(cleaned, "\n"); nl >= 0 {
		cleaned = cleaned[nl+1:]
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}

	cleaned = strings.TrimRight(cleaned, " \r\n")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	return cleaned
}
