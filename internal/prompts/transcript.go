package prompts

import (
	"fmt"
	"strings"

	"ai-interview/internal/interview"
)

// Transcript собирает стенограмму обеих фаз с метками:
// G1..Gn для общей фазы, S1..Sm для специализированной
func Transcript(s *interview.Session) string {
	var builder strings.Builder

	builder.WriteString("GENERAL QUESTIONS\n")
	writeTurns(&builder, interview.PhaseGeneral, s.GeneralAnswers)

	if len(s.SpecializedAnswers) > 0 {
		builder.WriteString(fmt.Sprintf("\nSPECIALIZED QUESTIONS (field: %s, desired position: %s)\n",
			s.SelectedField, positionOrUnknown(s.DesiredPosition)))
		writeTurns(&builder, interview.PhaseSpecialized, s.SpecializedAnswers)
	}

	return strings.TrimRight(builder.String(), "\n")
}

// TurnLabel возвращает метку i-го (с нуля) ответа фазы
func TurnLabel(phase interview.Phase, i int) string {
	if phase == interview.PhaseSpecialized {
		return fmt.Sprintf("S%d", i+1)
	}
	return fmt.Sprintf("G%d", i+1)
}

func writeTurns(builder *strings.Builder, phase interview.Phase, answers []interview.AnswerRecord) {
	for i, a := range answers {
		label := TurnLabel(phase, i)
		builder.WriteString(fmt.Sprintf("[%s] Question: %s\n", label, a.QuestionText))
		builder.WriteString(fmt.Sprintf("[%s] Answer: %s\n", label, a.CandidateAnswer))
	}
}
