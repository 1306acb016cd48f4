package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-interview/internal/interview"
	"ai-interview/internal/repository"
)

// CreateSession проверяет анкету и сохраняет новую сессию в статусе info_submitted
func (e *Engine) CreateSession(ctx context.Context, candidate interview.CandidateInfo) (*interview.Session, error) {
	candidate.Normalize()
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	sess := interview.NewSession(candidate, e.now())
	if err := e.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	e.metrics.IncrementSessionsCreated()
	e.log.Info().Str("session_id", sess.ID).Msg("session created")
	return sess, nil
}

// GetSession возвращает сессию по id
func (e *Engine) GetSession(ctx context.Context, id string) (*interview.Session, error) {
	return e.sessions.Get(ctx, id)
}

// StartGeneralPhase снимает копию общего набора и возвращает первый вопрос.
// Если общая фаза уже идет, возвращает первый неотвеченный вопрос без нового
// снимка. Повторный старт из awaiting_specialization, completed или abandoned
// сбрасывает обе фазы
func (e *Engine) StartGeneralPhase(ctx context.Context, id string) (*QuestionView, error) {
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		sess, err := e.sessions.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		switch sess.Status {
		case interview.StatusGeneralInProgress:
			if len(sess.GeneralSnapshot) > 0 {
				if view := viewOf(sess, interview.PhaseGeneral); view != nil {
					return view, nil
				}
				return nil, fmt.Errorf("%w: session %s has no pending general question", interview.ErrInvalidState, id)
			}
		case interview.StatusSpecializedInProgress:
			return nil, fmt.Errorf("%w: cannot restart the general phase of session %s during the specialized phase",
				interview.ErrInvalidState, id)
		case interview.StatusInfoSubmitted, interview.StatusAwaitingSpecialization,
			interview.StatusCompleted, interview.StatusAbandoned:
		}

		resolved, err := e.resolver.Resolve(ctx, interview.KindGeneral)
		if err != nil {
			e.log.Error().Err(err).Str("session_id", id).Msg("general question set unavailable")
			return nil, err
		}

		previous := sess.Status
		now := e.now()
		sess.Status = interview.StatusGeneralInProgress
		sess.SelectedField = interview.FieldNone
		sess.DesiredPosition = ""
		sess.GeneralQuestionSetRef = resolved.SetID
		sess.GeneralSnapshot = resolved.Snapshot
		sess.GeneralAnswers = []interview.AnswerRecord{}
		sess.SpecializedQuestionSetRef = ""
		sess.SpecializedSnapshot = []interview.QuestionSnapshot{}
		sess.SpecializedAnswers = []interview.AnswerRecord{}
		sess.OverallAssessment = nil
		sess.IsCompleted = false
		sess.EndTime = nil
		sess.StartTime = now
		sess.UpdatedAt = now

		err = e.sessions.Save(ctx, sess)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		e.log.Info().
			Str("session_id", id).
			Str("from", string(previous)).
			Str("question_set", resolved.SetID).
			Int("questions", len(resolved.Snapshot)).
			Msg("general phase started")
		return viewOf(sess, interview.PhaseGeneral), nil
	}
	return nil, fmt.Errorf("start general phase of session %s: %w", id, repository.ErrConflict)
}

// SelectField сохраняет специализацию и запускает специализированную фазу.
// Статус проверяется раньше значения специализации
func (e *Engine) SelectField(ctx context.Context, id string, rawField string) (*QuestionView, error) {
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		sess, err := e.sessions.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess.Status != interview.StatusAwaitingSpecialization {
			return nil, fmt.Errorf("%w: session %s is %s, a field can only be selected after the general phase",
				interview.ErrInvalidState, id, sess.Status)
		}

		field, err := interview.ParseField(rawField)
		if err != nil {
			return nil, err
		}
		kind, _ := field.Kind()

		resolved, err := e.resolver.Resolve(ctx, kind)
		if err != nil {
			e.log.Error().Err(err).Str("session_id", id).Str("field", string(field)).Msg("specialized question set unavailable")
			return nil, err
		}

		sess.Status = interview.StatusSpecializedInProgress
		sess.SelectedField = field
		sess.DesiredPosition = ""
		sess.SpecializedQuestionSetRef = resolved.SetID
		sess.SpecializedSnapshot = resolved.Snapshot
		sess.SpecializedAnswers = []interview.AnswerRecord{}
		sess.UpdatedAt = e.now()

		err = e.sessions.Save(ctx, sess)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		e.log.Info().
			Str("session_id", id).
			Str("field", string(field)).
			Str("question_set", resolved.SetID).
			Msg("specialized phase started")
		return viewOf(sess, interview.PhaseSpecialized), nil
	}
	return nil, fmt.Errorf("select field for session %s: %w", id, repository.ErrConflict)
}

// AbandonSession прерывает незавершенную сессию без оценки
func (e *Engine) AbandonSession(ctx context.Context, id string) (*interview.Session, error) {
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		sess, err := e.sessions.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess.Status.Terminal() {
			return nil, fmt.Errorf("%w: session %s is already %s", interview.ErrInvalidState, id, sess.Status)
		}

		previous := sess.Status
		now := e.now()
		sess.Status = interview.StatusAbandoned
		sess.EndTime = &now
		sess.UpdatedAt = now

		err = e.sessions.Save(ctx, sess)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		e.metrics.IncrementSessionsAbandoned()
		e.log.Info().Str("session_id", id).Str("from", string(previous)).Msg("session abandoned")
		return sess, nil
	}
	return nil, fmt.Errorf("abandon session %s: %w", id, repository.ErrConflict)
}

// ListFilter задает выборку сессий. Status и Verdict сравниваются точно
type ListFilter struct {
	Status  string
	Verdict string
	Skip    int
	Limit   int
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListSessions возвращает сессии, новые первыми
func (e *Engine) ListSessions(ctx context.Context, f ListFilter) ([]*interview.Session, error) {
	filter := repository.SessionFilter{Skip: f.Skip, Limit: f.Limit}

	if strings.TrimSpace(f.Status) != "" {
		status, err := interview.ParseStatus(f.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if v := strings.TrimSpace(f.Verdict); v != "" {
		verdict, ok := interview.ParseVerdict(v)
		if !ok {
			verdict = interview.AssessmentStatus(v)
			if !verdict.Valid() {
				return nil, fmt.Errorf("%w: unknown assessment status %q", interview.ErrValidation, f.Verdict)
			}
		}
		filter.Verdict = verdict
	}
	if filter.Skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", interview.ErrValidation)
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit < 1 || filter.Limit > MaxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", interview.ErrValidation, MaxListLimit)
	}

	return e.sessions.List(ctx, filter)
}

// CurrentQuestion возвращает текущий вопрос идущей фазы или nil,
// если сессия не принимает ответы
func (e *Engine) CurrentQuestion(ctx context.Context, id string) (*QuestionView, error) {
	sess, err := e.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	phase, ok := sess.CurrentPhase()
	if !ok {
		return nil, nil
	}
	return viewOf(sess, phase), nil
}
