package interview

import (
	"fmt"
	"strings"
)

// QuestionPrompt builds the instruction that asks the model for exactly one
// question appropriate to the stage. Resume text is only used by the resume
// stage.
func QuestionPrompt(stage Stage, jobRole, resumeText string) (string, error) {
	switch stage {
	case StageBasic:
		return fmt.Sprintf("Ask ONE HR interview question for %s.", jobRole), nil
	case StageRole:
		return fmt.Sprintf("Ask ONE role-specific question for %s.", jobRole), nil
	case StageTechnical:
		return fmt.Sprintf("Ask ONE technical question for %s.", jobRole), nil
	case StageResume:
		return fmt.Sprintf("Resume: %s\nAsk ONE resume-based question.", resumeText), nil
	case StageBehavioral:
		return fmt.Sprintf("Ask ONE behavioral interview question for %s.", jobRole), nil
	case StageSalary:
		return fmt.Sprintf("Ask ONE salary/notice-period question for %s.", jobRole), nil
	default:
		return "", &InvalidStageError{Stage: stage}
	}
}

// ClarifyPrompt asks for a rephrasing of question that keeps its intent
func ClarifyPrompt(question string) string {
	return fmt.Sprintf(`Rephrase the following interview question so it is easier to understand.
Keep the same intent and scope. Reply with the rephrased question only.

Question: %s`, question)
}

// FeedbackPrompt asks for feedback once the scripted interview is over
func FeedbackPrompt(jobRole string, history []Exchange) string {
	return fmt.Sprintf(`Give interview feedback for a candidate interviewing for %s.

## Transcript

%s`, jobRole, formatTranscript(history))
}

// FinalFeedbackPrompt asks for a comprehensive evaluation of an interview
// that may have ended before the last stage.
func FinalFeedbackPrompt(jobRole string, reached Stage, history []Exchange) string {
	return fmt.Sprintf(`You are an experienced interviewer. The candidate interviewed for %s.
The interview ended during the %s stage after %d answered question(s).

## Transcript

%s

## Task

Write comprehensive feedback covering:
1. Overall impression
2. Strengths, citing specific answers
3. Areas to improve, with concrete suggestions
4. A score out of 10 and a hiring recommendation

If few questions were answered, say so and base the evaluation on what is available.`,
		jobRole, reached, len(history), formatTranscript(history))
}

func formatTranscript(history []Exchange) string {
	if len(history) == 0 {
		return "(no questions answered)"
	}
	var b strings.Builder
	for i, ex := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n", i+1, ex.Question, i+1, ex.Answer)
	}
	return b.String()
}
