package storage

import (
	"time"

	"ai-interview/internal/interview"
)

// InterviewResult представляет выгрузку завершенной сессии интервью
type InterviewResult struct {
	InterviewID     string                       `json:"interview_id"`
	Timestamp       string                       `json:"timestamp"`
	Status          interview.Status             `json:"lifecycle_status"`
	Candidate       interview.CandidateInfo      `json:"candidate"`
	SelectedField   interview.Field              `json:"selected_field"`
	DesiredPosition string                       `json:"desired_position"`
	StartTime       time.Time                    `json:"start_time"`
	EndTime         *time.Time                   `json:"end_time"`
	Blocks          []BlockResult                `json:"blocks"`
	Assessment      *interview.OverallAssessment `json:"overall_assessment"`
}

// BlockResult представляет результат одной фазы
type BlockResult struct {
	Phase               interview.Phase `json:"phase"`
	QuestionSetRef      string          `json:"question_set_ref"`
	QuestionsAndAnswers []QA            `json:"questions_and_answers"`
}

// QA представляет один вопрос, ответ и отзыв AI
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"ai_feedback"`
}

// FromSession собирает выгрузку из сессии. Неотвеченные вопросы не попадают в блоки.
func FromSession(sess *interview.Session, now time.Time) *InterviewResult {
	result := &InterviewResult{
		InterviewID:     sess.ID,
		Timestamp:       now.UTC().Format(time.RFC3339),
		Status:          sess.Status,
		Candidate:       sess.Candidate,
		SelectedField:   sess.SelectedField,
		DesiredPosition: sess.DesiredPosition,
		StartTime:       sess.StartTime,
		EndTime:         sess.EndTime,
		Assessment:      sess.OverallAssessment,
	}

	blocks := []struct {
		phase interview.Phase
		ref   string
	}{
		{interview.PhaseGeneral, sess.GeneralQuestionSetRef},
		{interview.PhaseSpecialized, sess.SpecializedQuestionSetRef},
	}
	for _, b := range blocks {
		answers := sess.Answers(b.phase)
		if len(answers) == 0 {
			continue
		}
		block := BlockResult{Phase: b.phase, QuestionSetRef: b.ref}
		for _, a := range answers {
			block.QuestionsAndAnswers = append(block.QuestionsAndAnswers, QA{
				Question: a.QuestionText,
				Answer:   a.CandidateAnswer,
				Feedback: a.AIFeedback,
			})
		}
		result.Blocks = append(result.Blocks, block)
	}
	return result
}
