package prompts

import (
	"fmt"
	"strings"

	"ai-interview/internal/interview"
)

// FeedbackPrompt создает промпт для короткого отзыва на один ответ
func FeedbackPrompt(question, answer string) string {
	prompt := `Analyze the following interview answer briefly (1-2 sentences), focusing on clarity and relevance to the question.

Question: "%s"
Candidate answer: "%s"

Your feedback:`

	return fmt.Sprintf(prompt, question, answer)
}

// AssessmentPrompt создает промпт для итоговой оценки по стенограмме
func AssessmentPrompt(field interview.Field, desiredPosition, transcript string) string {
	prompt := `Based on the complete interview below, covering the general questions and the specialized questions for the field '%[1]s', produce an overall assessment.

%[2]s

The candidate wants to apply for the position: '%[3]s'.

INSTRUCTIONS:
1. "status" must be exactly one of "Pass", "Fail", "NeedsReview".
2. Every strength and weakness cites the turn labels (for example G2, S1) that support it in "evidence".
3. "suitability_for_field" rates the fit with '%[1]s', for example "Strong fit", "Fit", "Potential, needs improvement", "Weak fit", "Not a fit".
4. "suggested_positions" lists 1-2 concrete positions in '%[1]s' the candidate suits best, or [] if none.
5. "suggestions_if_not_pass" is advice for the candidate when status is not Pass, otherwise null.
6. Return ONLY a valid JSON object, no markdown and no comments.

{
  "overall_summary": "Two or three sentences about the whole interview",
  "strengths": [{"point": "Main strength", "evidence": "G1, S2"}],
  "weaknesses": [{"point": "Main weakness", "evidence": "S3"}],
  "status": "Pass",
  "suitability_for_field": "Fit",
  "suggested_positions": ["Suggested position"],
  "suggestions_if_not_pass": null
}

JSON output:`

	return fmt.Sprintf(prompt, field, transcript, positionOrUnknown(desiredPosition))
}

func positionOrUnknown(position string) string {
	if strings.TrimSpace(position) == "" {
		return "not stated"
	}
	return position
}
