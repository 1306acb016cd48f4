package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-interview/internal/interview"
	"ai-interview/internal/repository"
)

// position - вопрос, на который отвечают
type position struct {
	phase    interview.Phase
	index    int
	question interview.QuestionSnapshot
}

// locate проверяет, что сессия принимает ответы и questionID - первый
// неотвеченный вопрос текущей фазы
func locate(sess *interview.Session, questionID string) (position, error) {
	phase, ok := sess.CurrentPhase()
	if !ok {
		return position{}, fmt.Errorf("%w: session %s is %s and does not accept answers",
			interview.ErrInvalidState, sess.ID, sess.Status)
	}
	q, i, ok := sess.PendingQuestion(phase)
	if !ok {
		return position{}, fmt.Errorf("%w: %s phase of session %s has no pending question",
			interview.ErrOutOfOrder, phase, sess.ID)
	}
	if q.ID != questionID {
		return position{}, fmt.Errorf("%w: expected question %s, got %s", interview.ErrOutOfOrder, q.ID, questionID)
	}
	return position{phase: phase, index: i, question: q}, nil
}

// SubmitAnswer сохраняет ответ на текущий вопрос вместе с отзывом AI.
//
// Отзыв запрашивается без блокировок, затем сессия перечитывается и
// записывается с условием на ревизию. Если позицию за это время занял другой
// ответ, возвращается interview.ErrOutOfOrder, а отзыв отбрасывается.
// Последний ответ специализированной фазы запускает итоговую оценку и
// завершает сессию.
func (e *Engine) SubmitAnswer(ctx context.Context, id, questionID, answer string) (*AnswerResult, error) {
	sess, err := e.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	pos, err := locate(sess, questionID)
	if err != nil {
		return nil, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, interview.ErrBlankAnswer
	}

	feedback := e.critic.Critique(ctx, pos.question.Text, answer)

	var assessment *interview.OverallAssessment
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			e.metrics.IncrementAnswerConflicts()
		}

		sess, err = e.sessions.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		current, err := locate(sess, questionID)
		if err != nil {
			return nil, err
		}
		if current.phase != pos.phase || current.index != pos.index {
			return nil, fmt.Errorf("%w: question %s is no longer pending", interview.ErrOutOfOrder, questionID)
		}

		now := e.now()
		record := interview.AnswerRecord{
			QuestionID:      pos.question.ID,
			QuestionText:    pos.question.Text,
			CandidateAnswer: answer,
			AIFeedback:      feedback,
			Timestamp:       now,
		}
		if pos.phase == interview.PhaseGeneral {
			sess.GeneralAnswers = append(sess.GeneralAnswers, record)
		} else {
			sess.SpecializedAnswers = append(sess.SpecializedAnswers, record)
			if pos.index == 0 {
				sess.DesiredPosition = answer
			}
		}
		sess.UpdatedAt = now

		_, _, pending := sess.PendingQuestion(pos.phase)
		switch {
		case pending:
		case pos.phase == interview.PhaseGeneral:
			sess.Status = interview.StatusAwaitingSpecialization
		default:
			// пока позиция наша, стенограмма до этого ответа не меняется,
			// повтор использует ту же оценку
			if assessment == nil {
				assessment = e.assessor.Assess(ctx, sess)
			}
			end := e.now()
			sess.Status = interview.StatusCompleted
			sess.IsCompleted = true
			sess.OverallAssessment = assessment
			sess.EndTime = &end
			sess.UpdatedAt = end
		}

		err = e.sessions.Save(ctx, sess)
		if errors.Is(err, repository.ErrConflict) {
			e.log.Debug().Str("session_id", id).Int("attempt", attempt+1).Msg("answer write lost, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		e.metrics.IncrementAnswersAccepted()
		e.log.Info().
			Str("session_id", id).
			Str("phase", string(pos.phase)).
			Int("question", pos.index+1).
			Str("status", string(sess.Status)).
			Msg("answer accepted")
		return e.result(sess, pos.phase, feedback), nil
	}
	return nil, fmt.Errorf("submit answer to session %s: %w", id, repository.ErrConflict)
}

func (e *Engine) result(sess *interview.Session, phase interview.Phase, feedback string) *AnswerResult {
	res := &AnswerResult{Feedback: feedback, Status: sess.Status}
	switch sess.Status {
	case interview.StatusAwaitingSpecialization:
		res.SelectableFields = interview.SelectableFields()
	case interview.StatusCompleted:
		e.metrics.IncrementSessionsCompleted()
		res.Assessment = sess.OverallAssessment
		e.log.Info().
			Str("session_id", sess.ID).
			Str("verdict", string(sess.OverallAssessment.Status)).
			Msg("session completed")
	default:
		res.NextQuestion = viewOf(sess, phase)
	}
	return res
}
