package interview

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuestionSnapshot - копия вопроса, снятая при старте фазы
type QuestionSnapshot struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// AnswerRecord - принятый ответ вместе с отзывом AI
type AnswerRecord struct {
	QuestionID      string    `json:"question_id"`
	QuestionText    string    `json:"question_text"`
	CandidateAnswer string    `json:"candidate_answer"`
	AIFeedback      string    `json:"ai_feedback"`
	Timestamp       time.Time `json:"timestamp"`
}

// Session представляет одну попытку кандидата пройти интервью
type Session struct {
	ID              string        `json:"id"`
	Status          Status        `json:"lifecycle_status"`
	SelectedField   Field         `json:"selected_field"`
	DesiredPosition string        `json:"desired_position"`
	Candidate       CandidateInfo `json:"candidate"`

	GeneralQuestionSetRef string             `json:"general_question_set_ref"`
	GeneralSnapshot       []QuestionSnapshot `json:"general_snapshot"`
	GeneralAnswers        []AnswerRecord     `json:"general_answers"`

	SpecializedQuestionSetRef string             `json:"specialized_question_set_ref"`
	SpecializedSnapshot       []QuestionSnapshot `json:"specialized_snapshot"`
	SpecializedAnswers        []AnswerRecord     `json:"specialized_answers"`

	OverallAssessment *OverallAssessment `json:"overall_assessment"`

	StartTime   time.Time  `json:"start_time"`
	UpdatedAt   time.Time  `json:"updated_at"`
	EndTime     *time.Time `json:"end_time"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	Revision    int64      `json:"revision"`
}

// NewSession создает сессию в статусе info_submitted
func NewSession(candidate CandidateInfo, now time.Time) *Session {
	return &Session{
		ID:            uuid.NewString(),
		Status:        StatusInfoSubmitted,
		SelectedField: FieldNone,
		Candidate:     candidate,
		StartTime:     now,
		UpdatedAt:     now,
		CreatedAt:     now,
	}
}

// CurrentPhase возвращает фазу, которая сейчас принимает ответы
func (s *Session) CurrentPhase() (Phase, bool) {
	switch s.Status {
	case StatusGeneralInProgress:
		return PhaseGeneral, true
	case StatusSpecializedInProgress:
		return PhaseSpecialized, true
	case StatusInfoSubmitted, StatusAwaitingSpecialization, StatusCompleted, StatusAbandoned:
		return "", false
	}
	return "", false
}

// Snapshot возвращает снимок вопросов фазы
func (s *Session) Snapshot(phase Phase) []QuestionSnapshot {
	if phase == PhaseSpecialized {
		return s.SpecializedSnapshot
	}
	return s.GeneralSnapshot
}

// Answers возвращает ответы фазы
func (s *Session) Answers(phase Phase) []AnswerRecord {
	if phase == PhaseSpecialized {
		return s.SpecializedAnswers
	}
	return s.GeneralAnswers
}

// PendingQuestion возвращает первый неотвеченный вопрос фазы и его индекс
func (s *Session) PendingQuestion(phase Phase) (QuestionSnapshot, int, bool) {
	snapshot := s.Snapshot(phase)
	i := len(s.Answers(phase))
	if i >= len(snapshot) {
		return QuestionSnapshot{}, i, false
	}
	return snapshot[i], i, true
}

// CheckInvariants проверяет инварианты сохраненной сессии.
// Нарушение означает поврежденный документ
func (s *Session) CheckInvariants() error {
	if _, err := uuid.Parse(s.ID); err != nil {
		return fmt.Errorf("%w: session id %q", ErrCorruptDocument, s.ID)
	}
	if !s.Status.Valid() {
		return fmt.Errorf("%w: session %s has unknown status %q", ErrCorruptDocument, s.ID, s.Status)
	}
	if !s.SelectedField.Valid() {
		return fmt.Errorf("%w: session %s has unknown field %q", ErrCorruptDocument, s.ID, s.SelectedField)
	}
	if s.IsCompleted != (s.Status == StatusCompleted) {
		return fmt.Errorf("%w: session %s is_completed=%t with status %s", ErrCorruptDocument, s.ID, s.IsCompleted, s.Status)
	}
	if (s.OverallAssessment != nil) != s.IsCompleted {
		return fmt.Errorf("%w: session %s assessment presence disagrees with completion", ErrCorruptDocument, s.ID)
	}
	if s.IsCompleted && s.EndTime == nil {
		return fmt.Errorf("%w: session %s completed without end time", ErrCorruptDocument, s.ID)
	}
	switch s.Status {
	case StatusSpecializedInProgress, StatusCompleted:
		if s.SelectedField == FieldNone {
			return fmt.Errorf("%w: session %s in %s without a field", ErrCorruptDocument, s.ID, s.Status)
		}
	case StatusInfoSubmitted, StatusGeneralInProgress, StatusAwaitingSpecialization:
		if s.SelectedField != FieldNone {
			return fmt.Errorf("%w: session %s has field %s before specialization", ErrCorruptDocument, s.ID, s.SelectedField)
		}
	case StatusAbandoned:
	}
	for _, phase := range []Phase{PhaseGeneral, PhaseSpecialized} {
		snapshot, answers := s.Snapshot(phase), s.Answers(phase)
		if len(answers) > len(snapshot) {
			return fmt.Errorf("%w: session %s has %d %s answers for %d questions",
				ErrCorruptDocument, s.ID, len(answers), phase, len(snapshot))
		}
		for i, a := range answers {
			if a.QuestionID != snapshot[i].ID {
				return fmt.Errorf("%w: session %s %s answer %d does not match question %s",
					ErrCorruptDocument, s.ID, phase, i, snapshot[i].ID)
			}
		}
	}
	return nil
}
