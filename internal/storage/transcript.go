package storage

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kfreiman/careercoach/internal/interview"
)

const frontmatterDelimiter = "---"

// Frontmatter is the YAML header of an archived transcript
type Frontmatter struct {
	ID            string            `yaml:"id" json:"id"`
	JobRole       string            `yaml:"job_role" json:"jobRole"`
	Stage         interview.Stage   `yaml:"stage" json:"stage"`
	QuestionCount int               `yaml:"question_count" json:"questionCount"`
	Outcome       interview.Outcome `yaml:"outcome" json:"outcome"`
	StartedAt     time.Time         `yaml:"started_at" json:"startedAt"`
	EndedAt       time.Time         `yaml:"ended_at" json:"endedAt"`
	ArchivedAt    time.Time         `yaml:"archived_at" json:"archivedAt"`
	Redacted      bool              `yaml:"redacted" json:"redacted"`
}

// Record is an archived transcript read back from storage
type Record struct {
	Frontmatter
	Body string `json:"body"`
}

// renderTranscript writes the markdown form of t
func renderTranscript(fm Frontmatter, t interview.Transcript) ([]byte, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString(frontmatterDelimiter + "\n")
	b.Write(header)
	b.WriteString(frontmatterDelimiter + "\n\n")

	fmt.Fprintf(&b, "# Interview: %s\n\n", t.JobRole)

	b.WriteString("## Resume\n\n")
	b.WriteString(strings.TrimSpace(t.ResumeText))
	b.WriteString("\n\n")

	b.WriteString("## Transcript\n\n")
	if len(t.History) == 0 {
		b.WriteString("_No questions were answered._\n\n")
	}
	for i, ex := range t.History {
		fmt.Fprintf(&b, "### Question %d\n\n%s\n\n**Answer:** %s\n\n", i+1, strings.TrimSpace(ex.Question), strings.TrimSpace(ex.Answer))
	}

	b.WriteString("## Feedback\n\n")
	b.WriteString(strings.TrimSpace(t.Feedback))
	b.WriteString("\n")

	return b.Bytes(), nil
}

// parseRecord splits an archived file into frontmatter and body
func parseRecord(data []byte) (Record, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(content, frontmatterDelimiter+"\n") {
		return Record{}, fmt.Errorf("missing frontmatter")
	}

	rest := content[len(frontmatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelimiter+"\n")
	if end < 0 {
		return Record{}, fmt.Errorf("unterminated frontmatter")
	}

	var rec Record
	if err := yaml.Unmarshal([]byte(rest[:end]), &rec.Frontmatter); err != nil {
		return Record{}, fmt.Errorf("failed to decode frontmatter: %w", err)
	}
	rec.Body = strings.TrimLeft(rest[end+len(frontmatterDelimiter)+2:], "\n")
	return rec, nil
}
