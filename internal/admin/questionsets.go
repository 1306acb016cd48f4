package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ai-interview/internal/interview"
	"ai-interview/internal/repository"
)

// QuestionInput описывает вопрос в запросе на создание или изменение.
// Пустой ID генерируется, нулевой Order берется из позиции в списке
type QuestionInput struct {
	ID    string `json:"id,omitempty" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Order int    `json:"order,omitempty" yaml:"order"`
}

// NewQuestionSet - запрос на создание набора, пустой ID генерируется
type NewQuestionSet struct {
	ID        string          `json:"id,omitempty" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Kind      interview.Kind  `json:"kind" yaml:"kind"`
	Questions []QuestionInput `json:"questions" yaml:"questions"`
}

// QuestionSetUpdate меняет непустые части набора
type QuestionSetUpdate struct {
	Name      *string
	Kind      *interview.Kind
	Questions []QuestionInput // nil не меняет вопросы
}

// CreateQuestionSet проверяет и сохраняет новый набор
func (s *Service) CreateQuestionSet(ctx context.Context, in NewQuestionSet) (*interview.QuestionSet, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = "custom-set-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	kind, err := interview.ParseKind(string(in.Kind))
	if err != nil {
		return nil, err
	}
	now := s.now()
	qs := &interview.QuestionSet{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Kind:      kind,
		Questions: buildQuestions(in.Questions),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sets.Create(ctx, qs); err != nil {
		return nil, err
	}
	s.log.Info().Str("set_id", qs.ID).Str("kind", string(qs.Kind)).Int("questions", len(qs.Questions)).Msg("question set created")
	return qs, nil
}

// ListQuestionSets возвращает наборы вопросов. Пустой kind означает все виды
func (s *Service) ListQuestionSets(ctx context.Context, kind interview.Kind) ([]*interview.QuestionSet, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown question set kind %q", interview.ErrValidation, kind)
	}
	return s.sets.List(ctx, kind)
}

// GetQuestionSet возвращает набор по id
func (s *Service) GetQuestionSet(ctx context.Context, id string) (*interview.QuestionSet, error) {
	return s.sets.Get(ctx, id)
}

// UpdateQuestionSet применяет upd. Вид набора, на который ссылается слот
// по умолчанию, менять нельзя. Идущие сессии работают со своими снимками
func (s *Service) UpdateQuestionSet(ctx context.Context, id string, upd QuestionSetUpdate) (*interview.QuestionSet, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		qs, err := s.sets.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if upd.Name != nil {
			qs.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Kind != nil && *upd.Kind != qs.Kind {
			kind, err := interview.ParseKind(string(*upd.Kind))
			if err != nil {
				return nil, err
			}
			if err := s.checkNotReferenced(ctx, qs.ID, "change the kind of"); err != nil {
				return nil, err
			}
			qs.Kind = kind
		}
		if upd.Questions != nil {
			qs.Questions = buildQuestions(upd.Questions)
		}
		qs.UpdatedAt = s.now()

		err = s.sets.Save(ctx, qs)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("set_id", qs.ID).Msg("question set updated")
		return qs, nil
	}
	return nil, fmt.Errorf("update question set %s: %w", id, repository.ErrConflict)
}

// DeleteQuestionSet удаляет набор, если на него не ссылается ни один слот
func (s *Service) DeleteQuestionSet(ctx context.Context, id string) error {
	if _, err := s.sets.Get(ctx, id); err != nil {
		return err
	}
	if err := s.checkNotReferenced(ctx, id, "delete"); err != nil {
		return err
	}
	if err := s.sets.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("set_id", id).Msg("question set deleted")
	return nil
}

func (s *Service) checkNotReferenced(ctx context.Context, setID, action string) error {
	cfg, err := s.settings.Defaults(ctx)
	if errors.Is(err, interview.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if kinds := cfg.References(setID); len(kinds) > 0 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		return fmt.Errorf("%w: cannot %s question set %q, it is the default for %s",
			interview.ErrReferentialIntegrity, action, setID, strings.Join(names, ", "))
	}
	return nil
}

func buildQuestions(in []QuestionInput) []interview.Question {
	out := make([]interview.Question, 0, len(in))
	for i, q := range in {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			id = uuid.NewString()
		}
		order := q.Order
		if order == 0 {
			order = i + 1
		}
		out = append(out, interview.Question{ID: id, Text: strings.TrimSpace(q.Text), Order: order})
	}
	return out
}
