package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

// ServerInstructions contains the MCP server instructions for clients
const ServerInstructions = `CareerCoach Server - Mock Interview Tool

This server runs scripted mock interviews. Every interview walks through six
stages in order: basic, role, technical, resume, behavioral, salary. One
question is asked per stage; the sixth answer ends the interview with written
feedback.

## Transport

Streamable HTTP only:
- POST /mcp

## Tools

### start_interview
Start an interview.
Parameters:
- job_role: Role the candidate is interviewing for
- resume_text: Plain-text resume

Example: {"job_role": "Backend Engineer", "resume_text": "5 years of Go..."}

Returns the session id and the first (basic stage) question.

### submit_answer
Answer the current question.
Parameters:
- session_id: Session id from start_interview
- answer: The candidate's answer

Returns the next question, or the final feedback once the salary question has
been answered. The session ends with the feedback.

### clarify_question
Rephrase the current question in simpler words. The interview does not
advance.
Parameters:
- session_id: Session id

### finish_interview
End the interview early and receive feedback with a score out of 10.
Parameters:
- session_id: Session id

### list_transcripts
List archived transcripts of ended interviews.

## Resources

### Transcripts (interview://)
- interview://{id}: Markdown transcript of an ended interview, personal data
  redacted
`

// ToolDefinitions contains the MCP tool definitions
var ToolDefinitions = map[string]*mcp.Tool{
	"start_interview": {
		Name:        "start_interview",
		Description: "Start a six-stage mock interview for a job role and resume. Returns the session id and the first question.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"job_role": map[string]any{
					"type":        "string",
					"description": "Role the candidate is interviewing for",
				},
				"resume_text": map[string]any{
					"type":        "string",
					"description": "Plain-text resume of the candidate",
				},
			},
			"required": []string{"job_role", "resume_text"},
		},
	},
	"submit_answer": {
		Name:        "submit_answer",
		Description: "Submit the answer to the current question. Returns the next question, or the final feedback after the last stage.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"session_id": map[string]any{
					"type":        "string",
					"description": "Session id returned by start_interview",
				},
				"answer": map[string]any{
					"type":        "string",
					"description": "The candidate's answer",
				},
			},
			"required": []string{"session_id", "answer"},
		},
	},
	"clarify_question": {
		Name:        "clarify_question",
		Description: "Rephrase the current question in simpler words without advancing the interview.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"session_id": map[string]any{
					"type":        "string",
					"description": "Session id returned by start_interview",
				},
			},
			"required": []string{"session_id"},
		},
	},
	"finish_interview": {
		Name:        "finish_interview",
		Description: "End the interview early and return feedback with a score out of 10.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"session_id": map[string]any{
					"type":        "string",
					"description": "Session id returned by start_interview",
				},
			},
			"required": []string{"session_id"},
		},
	},
	"list_transcripts": {
		Name:        "list_transcripts",
		Description: "List archived interview transcripts, newest first. Returns interview:// URIs.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
	},
}

// ResourceTemplateDefinitions contains the MCP resource template definitions
var ResourceTemplateDefinitions = []*mcp.ResourceTemplate{
	{
		URITemplate: "interview://{id}",
		Name:        "Interview Transcript",
		Description: "Archived transcript of an ended interview by session id",
		MIMEType:    "text/markdown",
	},
}
