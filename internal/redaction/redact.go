// Package redaction masks personal data in resume text and interview answers
// before they are written to disk.
package redaction

import (
	"regexp"
)

// Rule replaces every match of Pattern with Placeholder
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Placeholder string
}

// Rules applied by the default redactor, in order. Cards run before phones so
// long digit runs are not split into phone numbers.
var DefaultRules = []Rule{
	{
		Name:        "emails",
		Pattern:     regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		Placeholder: "[EMAIL_REDACTED]",
	},
	{
		Name:        "profile_urls",
		Pattern:     regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?(?:linkedin\.com|github\.com|gitlab\.com)/[A-Za-z0-9_\-/]+`),
		Placeholder: "[PROFILE_URL_REDACTED]",
	},
	{
		Name:        "ssns",
		Pattern:     regexp.MustCompile(`\b\d{3}[- ]?\d{2}[- ]?\d{4}\b`),
		Placeholder: "[SSN_REDACTED]",
	},
	{
		Name:        "credit_cards",
		Pattern:     regexp.MustCompile(`\b(?:\d[ -]?){13,19}\d\b`),
		Placeholder: "[CREDIT_CARD_REDACTED]",
	},
	{
		Name:        "phones",
		Pattern:     regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?(?:\(?\d{3}\)?[-.\s]?)?\d{3}[-.\s]?\d{4}`),
		Placeholder: "[PHONE_REDACTED]",
	},
}

// Redactor masks personal data
type Redactor struct {
	rules []Rule
}

// NewRedactor creates a redactor. Without rules it uses DefaultRules.
func NewRedactor(rules ...Rule) *Redactor {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Redactor{rules: rules}
}

// RedactString removes personal data from s
func (r *Redactor) RedactString(s string) string {
	for _, rule := range r.rules {
		s = rule.Pattern.ReplaceAllString(s, rule.Placeholder)
	}
	return s
}

// Count reports how many matches each rule finds, applying the rules in
// sequence the way RedactString does
func (r *Redactor) Count(s string) map[string]int {
	counts := make(map[string]int, len(r.rules))
	for _, rule := range r.rules {
		counts[rule.Name] = len(rule.Pattern.FindAllStringIndex(s, -1))
		s = rule.Pattern.ReplaceAllString(s, rule.Placeholder)
	}
	return counts
}

// DefaultRedactor is the default PII redactor instance
var DefaultRedactor = NewRedactor()

// RedactString is a convenience function that uses the default redactor
func RedactString(s string) string {
	return DefaultRedactor.RedactString(s)
}
