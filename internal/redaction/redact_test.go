package redaction

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact_Emails(t *testing.T) {
	redacted := RedactString("Contact me at john.doe@example.com or support@company.org")

	assert.NotContains(t, redacted, "john.doe@example.com")
	assert.NotContains(t, redacted, "support@company.org")
	assert.Contains(t, redacted, "[EMAIL_REDACTED]")
}

func TestRedact_Phones(t *testing.T) {
	redacted := RedactString("Call me at 555-123-4567 or +1 (800) 555-0123")

	assert.NotContains(t, redacted, "555-123-4567")
	assert.NotContains(t, redacted, "800")
	assert.Contains(t, redacted, "[PHONE_REDACTED]")
}

func TestRedact_SSNs(t *testing.T) {
	redacted := RedactString("SSN: 123-45-6789")

	assert.NotContains(t, redacted, "123-45-6789")
	assert.Contains(t, redacted, "[SSN_REDACTED]")
}

func TestRedact_CreditCards(t *testing.T) {
	redacted := RedactString("Card number: 4111111111111111")

	assert.NotContains(t, redacted, "4111111111111111")
	assert.Contains(t, redacted, "[CREDIT_CARD_REDACTED]")
}

func TestRedact_ProfileURLs(t *testing.T) {
	redacted := RedactString("See https://www.linkedin.com/in/jane-doe and github.com/janedoe for more.")

	assert.NotContains(t, redacted, "jane-doe")
	assert.NotContains(t, redacted, "janedoe")
	assert.Contains(t, redacted, "[PROFILE_URL_REDACTED]")
	assert.Contains(t, redacted, "for more.")
}

func TestRedact_NoPII(t *testing.T) {
	content := "I led a team of 5 engineers for 3 years and shipped 12 releases."
	assert.Equal(t, content, RedactString(content))
}

func TestRedact_ResumeText(t *testing.T) {
	resume := `
Jane Doe
Email: jane@example.com
Phone: 555-123-4567
Experience: 5 years as a Go developer
`
	redacted := RedactString(resume)

	assert.NotContains(t, redacted, "jane@example.com")
	assert.NotContains(t, redacted, "555-123-4567")
	assert.Contains(t, redacted, "Jane Doe")
	assert.Contains(t, redacted, "5 years as a Go developer")
}

func TestRedactor_Count(t *testing.T) {
	counts := DefaultRedactor.Count("a@b.io, c@d.io, call 555-123-4567")

	assert.Equal(t, 2, counts["emails"])
	assert.Equal(t, 1, counts["phones"])
	assert.Equal(t, 0, counts["ssns"])
}

func TestNewRedactor_CustomRules(t *testing.T) {
	r := NewRedactor(Rule{
		Name:        "employee_ids",
		Pattern:     regexp.MustCompile(`EMP-\d+`),
		Placeholder: "[ID]",
	})

	assert.Equal(t, "badge [ID], mail x@y.com", r.RedactString("badge EMP-42, mail x@y.com"))
}
