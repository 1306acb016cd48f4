package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-interview/internal/interview"
)

func TestFeedbackPromptContainsOnlyTheTurn(t *testing.T) {
	p := FeedbackPrompt("Why Go?", "Because of goroutines.")
	assert.Contains(t, p, `Question: "Why Go?"`)
	assert.Contains(t, p, `Candidate answer: "Because of goroutines."`)
	assert.Contains(t, p, "1-2 sentences")
}

func TestTranscript(t *testing.T) {
	s := &interview.Session{
		SelectedField:   interview.FieldDeveloper,
		DesiredPosition: "Backend engineer",
		GeneralAnswers: []interview.AnswerRecord{
			{QuestionText: "Introduce yourself.", CandidateAnswer: "I am Ada."},
			{QuestionText: "Strengths?", CandidateAnswer: "Persistence."},
		},
		SpecializedAnswers: []interview.AnswerRecord{
			{QuestionText: "Which position?", CandidateAnswer: "Backend engineer"},
		},
	}

	want := "GENERAL QUESTIONS\n" +
		"[G1] Question: Introduce yourself.\n" +
		"[G1] Answer: I am Ada.\n" +
		"[G2] Question: Strengths?\n" +
		"[G2] Answer: Persistence.\n" +
		"\nSPECIALIZED QUESTIONS (field: developer, desired position: Backend engineer)\n" +
		"[S1] Question: Which position?\n" +
		"[S1] Answer: Backend engineer"
	assert.Equal(t, want, Transcript(s))
}

func TestTranscriptWithoutSpecializedPhase(t *testing.T) {
	s := &interview.Session{
		GeneralAnswers: []interview.AnswerRecord{{QuestionText: "Q", CandidateAnswer: "A"}},
	}
	got := Transcript(s)
	assert.NotContains(t, got, "SPECIALIZED")
	assert.Contains(t, got, "[G1] Answer: A")
}

func TestAssessmentPrompt(t *testing.T) {
	p := AssessmentPrompt(interview.FieldDesigner, "", "TRANSCRIPT")
	assert.Contains(t, p, "'designer'")
	assert.Contains(t, p, "TRANSCRIPT")
	assert.Contains(t, p, "'not stated'")
	assert.Contains(t, p, `"Pass", "Fail", "NeedsReview"`)
}

func TestTurnLabel(t *testing.T) {
	assert.Equal(t, "G1", TurnLabel(interview.PhaseGeneral, 0))
	assert.Equal(t, "S3", TurnLabel(interview.PhaseSpecialized, 2))
}
